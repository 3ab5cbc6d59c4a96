package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"
	"reflect"
	"syscall"
	"time"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/encoding/json"

	"github.com/kestrel-labs/tessera/cache"
	"github.com/kestrel-labs/tessera/debugstream"
	"github.com/kestrel-labs/tessera/engine"
	"github.com/kestrel-labs/tessera/featureflag"
	tessrahttp "github.com/kestrel-labs/tessera/http"
	"github.com/kestrel-labs/tessera/renderer"
	"github.com/kestrel-labs/tessera/tileset"
)

// The tessera version number. Set at build.
var version = "v0.1.0"

// This will effectively disable obfuscation of the config struct. Without
// it, the keys would get obfuscated causing the cli package to generate
// garbled command-line options.
// https://github.com/burrowers/garble/issues/403
var _ = reflect.TypeOf(config{})

var infoGauge = promauto.NewGauge(prometheus.GaugeOpts{
	Name:        "tessera_info",
	Help:        "Tessera server information.",
	ConstLabels: prometheus.Labels{"version": version},
})

type config struct {
	AdminAddr          string        `cli:""        env:"TESSERA_ADMIN_ADDR"           help:"Admin listening address (metrics, health, pprof)."`
	DebugStreamAddr    string        `cli:""        env:"TESSERA_DEBUG_STREAM_ADDR"    help:"Listening address for the debug visibility websocket stream."`
	ManifestPath       string        `cli:""        env:"TESSERA_MANIFEST_PATH"        help:"Path to the tileset manifest JSON file."`
	LogLevel           string        `cli:""        env:"TESSERA_LOG_LEVEL"            help:"Log level (debug|info|warning|error)."`
	LogIndent          bool          `cli:""        env:"TESSERA_LOG_INDENT"           help:"Indent logs."`
	FrameDuration      time.Duration `cli:",hidden" env:"TESSERA_FRAME_DURATION"       help:"The duration of a traversal frame."`
	LogSummaryInterval time.Duration `cli:",hidden" env:"TESSERA_LOG_SUMMARY_INTERVAL" help:"The duration between each frame summary log."`
	ErrorTarget        float64       `cli:",hidden" env:"TESSERA_ERROR_TARGET"         help:"The screen-space error target in pixels."`
	ErrorThreshold     float64       `cli:",hidden" env:"TESSERA_ERROR_THRESHOLD"      help:"Scales ErrorTarget into the parent-fallback bound."`
	MaxDepth           int           `cli:",hidden" env:"TESSERA_MAX_DEPTH"            help:"Maximum traversal depth, 0 disables the cutoff."`
	CacheCapacity      int           `cli:",hidden" env:"TESSERA_CACHE_CAPACITY"       help:"The number of tiles the content cache may hold resident."`
	FeatureFlags       []string      `cli:",hidden" env:"TESSERA_FEATURE_FLAGS"        help:"Comma separated feature flags."`
	Version            bool          `cli:""        env:"-"                            help:"Show version."`
	Help               bool          `cli:""        env:"-"                            help:"Show help."`
}

func main() {
	conf := config{
		AdminAddr:          ":18190",
		DebugStreamAddr:    ":18191",
		LogLevel:           logs.InfoLevel.String(),
		FrameDuration:      time.Millisecond * 33,
		LogSummaryInterval: time.Minute,
		ErrorTarget:        16,
		ErrorThreshold:     2,
		MaxDepth:           0,
		CacheCapacity:      512,
	}

	infoGauge.Set(1)

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Starts a tessera tile-streaming traversal server.").
		Options(&conf)
	cli.Load()

	if conf.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	if len(conf.ManifestPath) == 0 {
		logs.Fatal(errors.New("manifest path is required"))
	}

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	if conf.LogIndent {
		logs.Encoder = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		}
	}
	errors.Encoder = json.Marshal

	flags := featureflag.New(conf.FeatureFlags)

	manifest, err := tileset.LoadManifest(conf.ManifestPath)
	if err != nil {
		logs.Fatal(errors.New("loading tileset manifest failed").
			WithTag("manifest_path", conf.ManifestPath).
			Wrap(err))
	}
	root := manifest.BuildTree()

	cacheCapacity := conf.CacheCapacity
	flags.IfSet(featureflag.FlagForceCacheFull, func() {
		cacheCapacity = 0
	})
	tileCache := cache.New(cacheCapacity)

	loadSiblings := true
	flags.IfSet(featureflag.FlagDisableSiblingPreload, func() {
		loadSiblings = false
	})

	r := renderer.NewSynthetic(ctx, renderer.DefaultCamera(), renderer.Config{
		ErrorTarget:    conf.ErrorTarget,
		ErrorThreshold: conf.ErrorThreshold,
		MaxDepth:       conf.MaxDepth,
		LoadSiblings:   loadSiblings,
	}, tileCache, manifestLoader{})

	stream := debugstream.New()
	flags.IfNotSet(featureflag.FlagDisableDebugStream, func() {
		r.SetListener(stream)
	})

	e := engine.New(root, r, conf.FrameDuration)

	var observer engine.FrameObserver = engine.NopObserver{}
	observer = engine.ObserverWithMetrics(observer, manifest.Version)
	flags.IfNotSet(featureflag.FlagDisableFrameSummaryLog, func() {
		observer = engine.ObserverWithLogs(observer, conf.LogSummaryInterval)
	})
	e.SetObserver(observer)

	go e.Start()
	defer e.Close()

	var debugMux http.ServeMux
	debugMux.Handle("/", stream.Server())

	var admin http.ServeMux
	admin.Handle("/metrics", promhttp.Handler())
	admin.HandleFunc("/health", tessrahttp.HandleHealthCheck)
	admin.HandleFunc("/ready", tessrahttp.HandleReadyCheck(e.Ready))
	admin.HandleFunc("/version", tessrahttp.HandleVersion(version))
	admin.HandleFunc("/debug/pprof/", pprof.Index)
	admin.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	admin.HandleFunc("/debug/pprof/profile", pprof.Profile)
	admin.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	admin.HandleFunc("/debug/pprof/trace", pprof.Trace)
	admin.Handle("/debug/pprof/goroutine", pprof.Handler("goroutine"))
	admin.Handle("/debug/pprof/heap", pprof.Handler("heap"))
	admin.Handle("/debug/pprof/threadcreate", pprof.Handler("threadcreate"))
	admin.Handle("/debug/pprof/block", pprof.Handler("block"))

	logs.WithTag("version", version).
		WithTag("log_level", conf.LogLevel).
		WithTag("manifest_path", conf.ManifestPath).
		WithTag("frame_duration", conf.FrameDuration).
		Info("starting tessera server")

	tessrahttp.ListenAndServe(ctx,
		&http.Server{Addr: conf.AdminAddr, Handler: &admin},
		&http.Server{Addr: conf.DebugStreamAddr, Handler: &debugMux},
	)
}

// manifestLoader is a content loader that reports every tile's load as
// immediately successful: the synthetic renderer exists to exercise the
// traversal core's decisions, not to fetch real glTF payloads.
type manifestLoader struct{}

func (manifestLoader) Load(ctx context.Context, tileID uint64) error {
	return nil
}
