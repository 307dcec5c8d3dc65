package influxwrite

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog"

	"github.com/influxdata/lpbatch/internal/logger"
	"github.com/influxdata/lpbatch/lineprotocol"
)

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 1024

// Config configures an HTTPWriter.
type Config struct {
	// URL is the base URL of the server, for example
	// http://localhost:8086.
	URL      string
	Username string
	Password string
	// Consistency is used for bodies that don't carry their own.
	Consistency lineprotocol.Consistency
	// Gzip compresses request bodies.
	Gzip bool
	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration
	// Client is used to send requests. http.DefaultClient is used
	// when it is nil.
	Client *http.Client
}

// WriteError is returned when the server rejects a write.
type WriteError struct {
	StatusCode int
	// Body holds the start of the response body.
	Body string
}

func (e *WriteError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("write rejected with status %d", e.StatusCode)
	}
	return fmt.Sprintf("write rejected with status %d: %s", e.StatusCode, e.Body)
}

// HTTPWriter sends bodies to the /write endpoint of an InfluxDB 1.x
// compatible server. Bodies are streamed; a batch is never held in
// memory as a whole. Failed writes are not retried.
//
// An HTTPWriter is safe for concurrent use.
type HTTPWriter struct {
	cfg      Config
	endpoint *url.URL
	client   *http.Client
	logger   zerolog.Logger
}

// NewHTTPWriter returns a writer for the server at cfg.URL.
func NewHTTPWriter(cfg Config) (*HTTPWriter, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server URL %q: scheme must be http or https", cfg.URL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid server URL %q: no host", cfg.URL)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/write"
	client := cfg.Client
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPWriter{
		cfg:      cfg,
		endpoint: u,
		client:   client,
		logger:   logger.Get("influxwrite"),
	}, nil
}

// Write implements Writer. If body has a Consistency method, as
// *lineprotocol.Batch does, a non-default level it reports takes
// precedence over the configured one.
func (h *HTTPWriter) Write(ctx context.Context, database, retentionPolicy string, body io.WriterTo) error {
	if database == "" {
		return fmt.Errorf("%w: empty database name", lineprotocol.ErrInvalidArgument)
	}
	if h.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.cfg.Timeout)
		defer cancel()
	}
	start := time.Now()

	pr, pw := io.Pipe()
	encoded := make(chan encodeResult, 1)
	go func() {
		n, err := h.encode(pw, body)
		pw.CloseWithError(err)
		encoded <- encodeResult{n, err}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.writeURL(database, retentionPolicy, body), pr)
	if err != nil {
		pr.Close()
		<-encoded
		return fmt.Errorf("creating write request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if h.cfg.Gzip {
		req.Header.Set("Content-Encoding", "gzip")
	}
	if h.cfg.Username != "" {
		req.SetBasicAuth(h.cfg.Username, h.cfg.Password)
	}

	resp, err := h.client.Do(req)
	// The transport may stop reading early; unblock the encoder.
	pr.Close()
	res := <-encoded
	// ErrClosedPipe only means the body was cut short by the transport.
	if res.err != nil && !errors.Is(res.err, io.ErrClosedPipe) {
		if resp != nil {
			resp.Body.Close()
		}
		h.logger.Error().Err(res.err).Str("database", database).Msg("encoding write body failed")
		return fmt.Errorf("encoding write body: %w", res.err)
	}
	if err != nil {
		h.logger.Error().Err(err).Str("database", database).Msg("write request failed")
		return fmt.Errorf("write request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		io.Copy(io.Discard, resp.Body)
		werr := &WriteError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		}
		h.logger.Error().Err(werr).Str("database", database).Msg("write rejected")
		return werr
	}
	io.Copy(io.Discard, resp.Body)
	if res.err != nil {
		return fmt.Errorf("server replied before reading the whole body: %w", res.err)
	}
	h.logger.Debug().
		Str("database", database).
		Str("retention_policy", retentionPolicy).
		Int64("bytes", res.n).
		Dur("elapsed", time.Since(start)).
		Msg("batch written")
	return nil
}

type encodeResult struct {
	n   int64
	err error
}

// encode writes body to w, compressing it if configured, and returns
// the number of uncompressed bytes.
func (h *HTTPWriter) encode(w io.Writer, body io.WriterTo) (int64, error) {
	if !h.cfg.Gzip {
		return body.WriteTo(w)
	}
	zw := gzip.NewWriter(w)
	n, err := body.WriteTo(zw)
	if cerr := zw.Close(); err == nil {
		err = cerr
	}
	return n, err
}

func (h *HTTPWriter) writeURL(database, retentionPolicy string, body io.WriterTo) string {
	q := url.Values{}
	q.Set("db", database)
	if retentionPolicy != "" {
		q.Set("rp", retentionPolicy)
	}
	// Timestamps are always encoded in nanoseconds.
	q.Set("precision", "n")
	consistency := h.cfg.Consistency
	if cb, ok := body.(interface {
		Consistency() lineprotocol.Consistency
	}); ok && cb.Consistency() != lineprotocol.ConsistencyDefault {
		consistency = cb.Consistency()
	}
	if consistency != lineprotocol.ConsistencyDefault {
		q.Set("consistency", consistency.String())
	}
	u := *h.endpoint
	u.RawQuery = q.Encode()
	return u.String()
}
