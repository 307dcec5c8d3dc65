package lineprotocol_test

import (
	"fmt"
	"os"

	"github.com/influxdata/lpbatch/lineprotocol"
)

func ExampleBuilder() {
	p, err := lineprotocol.Measurement("foo").
		Tag("tag1", "val1").
		Tag("tag2", "val 2").
		AddField("x", 1.0).
		AddField("y", "hello").
		AddField("n", 42).
		Time(1625823259000000, lineprotocol.Microsecond).
		Build()
	if err != nil {
		panic(err)
	}
	line, err := p.LineProtocol()
	if err != nil {
		panic(err)
	}
	fmt.Println(line)
	// Output:
	// foo,tag1=val1,tag2=val\ 2 x=1.0,y="hello",n=42i 1625823259000000000
}

func ExampleBuilder_Field() {
	b := lineprotocol.Measurement("legacy")
	b.Field("count", 3)
	b.Field("missing", nil)
	b.Field("name", "x")
	fmt.Println(b.MustBuild())
	// Output:
	// legacy count=3.0,name="x"
}

func ExampleBatch_WriteTo() {
	batch, err := lineprotocol.Database("telegraf").
		RetentionPolicy("autogen").
		Tag("region", "eu").
		Build()
	if err != nil {
		panic(err)
	}
	batch.Point(lineprotocol.Measurement("cpu").Tag("host", "a").AddField("idle", 97.5).Time(1, lineprotocol.Second).MustBuild())
	batch.Point(lineprotocol.Measurement("cpu").Tag("region", "us").AddField("idle", 12.0).MustBuild())
	if _, err := batch.WriteTo(os.Stdout); err != nil {
		panic(fmt.Errorf("encoding error: %v", err))
	}
	// Output:
	// cpu,host=a,region=eu idle=97.5 1000000000
	// cpu,region=us idle=12.0
}
