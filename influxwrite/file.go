package influxwrite

import (
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileConfig configures a FileWriter.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// FileWriter appends bodies to a size-rotated file. Rotation happens
// between lines, never inside one.
type FileWriter struct {
	*StreamWriter
	file *lumberjack.Logger
}

// NewFileWriter returns a FileWriter for cfg. The file is opened
// lazily on the first write.
func NewFileWriter(cfg FileConfig) *FileWriter {
	file := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	return &FileWriter{
		StreamWriter: NewStreamWriter(file),
		file:         file,
	}
}

// Close closes the current file.
func (f *FileWriter) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.file.Close()
}
