// Command zbytesctl is a demo/diagnostic harness for the zarp-byte
// engine: it wires the platform feature flags to CLI switches, runs a
// handful of representative scenarios (cursor growth, content hash,
// content equality, field-group layout, message framing), and exposes
// a pprof endpoint.
package main

import (
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/vishifu/zarp-byte/cursor"
	"github.com/vishifu/zarp-byte/frame"
	"github.com/vishifu/zarp-byte/hash"
	"github.com/vishifu/zarp-byte/layout"
	"github.com/vishifu/zarp-byte/platform"
	"github.com/vishifu/zarp-byte/store"
)

// config is the optional on-disk override for the feature flags below,
// loaded before CLI flags so that --config provides defaults a flag
// can still override on the command line.
type config struct {
	BoundsCheckDisable         bool `yaml:"boundsCheckDisable"`
	VectorizedEqualsDisable    bool `yaml:"vectorizedEqualsDisable"`
	SingleThreadedCheckDisable bool `yaml:"singleThreadedCheckDisable"`
	ResourceTracing            bool `yaml:"resourceTracing"`
	Assert                     bool `yaml:"assert"`
}

func loadConfig(path string) (config, error) {
	var cfg config
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("zbytesctl: read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("zbytesctl: parse config: %w", err)
	}
	return cfg, nil
}

func main() {
	configPath := pflag.String("config", "", "path to a YAML file overriding the feature flags below")
	pprofAddr := pflag.String("pprof-addr", "", "if set, serve net/http/pprof on this address (e.g. localhost:6060)")
	boundsCheckDisable := pflag.Bool("bounds-check-disable", false, "disable bounds checking on store reads/writes")
	vectorizedEqualsDisable := pflag.Bool("vectorized-equals-disable", false, "force the portable word-stride content-equality path")
	singleThreadedCheckDisable := pflag.Bool("single-threaded-check-disable", false, "disable the cursor single-writer assertion")
	resourceTracing := pflag.Bool("resource-tracing", false, "warn when native stores finalize without Release")
	assertEnabled := pflag.Bool("assert", false, "enable debug-only assertions")
	demo := pflag.String("demo", "all", "comma-separated demo scenarios to run: cursor,hash,equals,layout,frame,all")
	pflag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if cfg.BoundsCheckDisable {
		platform.SetBoundsCheckDisabled(true)
	}
	if cfg.VectorizedEqualsDisable {
		platform.SetVectorizedEqualsDisabled(true)
	}
	if cfg.SingleThreadedCheckDisable {
		platform.SetSingleThreadedCheckDisabled(true)
	}
	if cfg.ResourceTracing {
		platform.SetResourceTracing(true)
	}
	if cfg.Assert {
		platform.SetAssertEnabled(true)
	}

	// Explicit flags win over the config file.
	if pflag.CommandLine.Changed("bounds-check-disable") {
		platform.SetBoundsCheckDisabled(*boundsCheckDisable)
	}
	if pflag.CommandLine.Changed("vectorized-equals-disable") {
		platform.SetVectorizedEqualsDisabled(*vectorizedEqualsDisable)
	}
	if pflag.CommandLine.Changed("single-threaded-check-disable") {
		platform.SetSingleThreadedCheckDisabled(*singleThreadedCheckDisable)
	}
	if pflag.CommandLine.Changed("resource-tracing") {
		platform.SetResourceTracing(*resourceTracing)
	}
	if pflag.CommandLine.Changed("assert") {
		platform.SetAssertEnabled(*assertEnabled)
	}

	if *pprofAddr != "" {
		go func() {
			log.Println(http.ListenAndServe(*pprofAddr, nil))
		}()
	}

	scenarios := map[string]func(){
		"cursor": demoCursor,
		"hash":   demoHash,
		"equals": demoEquals,
		"layout": demoLayout,
		"frame":  demoFrame,
	}
	run := selectScenarios(*demo, scenarios)
	for _, name := range run {
		log.Printf("=== %s ===", name)
		scenarios[name]()
	}
}

func selectScenarios(spec string, all map[string]func()) []string {
	if spec == "all" || spec == "" {
		return []string{"cursor", "hash", "equals", "layout", "frame"}
	}
	var out []string
	start := 0
	for i := 0; i <= len(spec); i++ {
		if i == len(spec) || spec[i] == ',' {
			name := spec[start:i]
			if _, ok := all[name]; ok {
				out = append(out, name)
			}
			start = i + 1
		}
	}
	return out
}

func demoCursor() {
	c, err := cursor.ElasticBuffer(8, 1<<16)
	if err != nil {
		log.Fatal(err)
	}
	defer c.Release()
	for i := 0; i < 100; i++ {
		if err := c.WriteLong(int64(i)); err != nil {
			log.Fatal(err)
		}
	}
	log.Printf("cursor grew to store size=%d after 100 longs", c.Store().Size())
}

func demoHash() {
	s := store.Wrap("zbytesctl", []byte("the quick brown fox jumps over the lazy dog"))
	h, err := hash.Of(s)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("content hash=%#x hash32=%#x", h, hash.Hash32(h))
}

func demoEquals() {
	a := store.Wrap("zbytesctl", []byte("abcdef"))
	b := store.Wrap("zbytesctl", []byte("abcdef\x00\x00"))
	eq, err := store.ContentEquals(a, b)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("abcdef vs abcdef\\x00\\x00 content-equal (zero-extension tail)=%v", eq)
}

type demoRecord struct {
	ID    int64 `group:"header"`
	Flags int32 `group:"header"`
	Value int64 `group:"body"`
}

func demoLayout() {
	rec := &demoRecord{ID: 7, Flags: 1, Value: 99}
	s, err := layout.WrapGroup("zbytesctl", rec, "body", 0)
	if err != nil {
		log.Fatal(err)
	}
	v, err := s.ReadLong(0)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("zero-copy read of demoRecord.Value group=%d", v)
}

func demoFrame() {
	w, err := frame.NewWriter(true)
	if err != nil {
		log.Fatal(err)
	}
	r, err := frame.NewReader()
	if err != nil {
		log.Fatal(err)
	}

	c := cursor.WrapElastic(make([]byte, 16), 4096)
	fields := []frame.Field{
		{Tag: 1, Hot: true, Data: []byte{1, 2, 3, 4}},
		{Tag: 9, Hot: false, Data: []byte("a cold diagnostic field")},
	}
	if err := w.Encode(c, 42, fields); err != nil {
		log.Fatal(err)
	}
	if err := c.SetReadPosition(0); err != nil {
		log.Fatal(err)
	}
	decoded, err := r.Decode(c)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("frame schemaID=%d hot[1]=%v cold[9]=%q", decoded.Header.SchemaID, decoded.Hot[1], decoded.Cold[9])
}
