package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	easy "git.fiblab.net/utils/logrus-easy-formatter"
	"github.com/sirupsen/logrus"

	"git.fiblab.net/sim/tramsim/registry"
	"git.fiblab.net/sim/tramsim/sim"
)

var (
	// 配置信息
	configPath  = flag.String("config", "config.json", "simulation config file path")
	dataDir     = flag.String("data", "data", "city/stop registry data dir")
	networkPath = flag.String("network", "", "network source [format: {fspath} or {db}.{col}]")
	mongoURI    = flag.String("mongo_uri", "", "mongo db uri (required for {db}.{col} network source)")
	outDir      = flag.String("outdir", "results", "output dir for stats artifacts")
	seed        = flag.Int64("seed", 0, "random seed (0 means time-based)")
	logLevel    = flag.String("log-level", "info", "log level [debug, info, warn, error, fatal, panic]")

	// 性能测试
	benchmark = flag.Bool("benchmark", false, "benchmark mode")
	pprofAddr = flag.String("pprof", "", "pprof listening address (empty means disabled)")

	LOG_LEVELS = map[string]logrus.Level{
		"debug": logrus.DebugLevel,
		"info":  logrus.InfoLevel,
		"warn":  logrus.WarnLevel,
		"error": logrus.ErrorLevel,
		"fatal": logrus.FatalLevel,
		"panic": logrus.PanicLevel,
	}
)

func main() {
	logrus.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	})
	flag.Parse()
	if level, ok := LOG_LEVELS[*logLevel]; ok {
		logrus.SetLevel(level)
	} else {
		logrus.Fatalf("invalid log level: %s", *logLevel)
	}

	cfg, err := sim.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	netPath, err := NewPath(*networkPath)
	if err != nil {
		log.Fatalf("invalid network path: %v", err)
	}
	loader, err := NewNetworkSource(netPath, *mongoURI)
	if err != nil {
		log.Fatalf("invalid network source: %v", err)
	}
	reg := registry.New(*dataDir)

	if *pprofAddr != "" {
		// 启动pprof
		startHTTPDebugger(*pprofAddr)
	}

	if *benchmark {
		// 性能测试
		runBenchmark(cfg, loader, reg)
		return
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	res, err := sim.Run(cfg, loader, reg, rng)
	if err != nil {
		log.Fatalf("run aborted in state %s: %v", res.State, err)
	}
	logComparison(res)

	if err := writeArtifacts(*outDir, cfg.Traffic, res); err != nil {
		log.Fatalf("failed to write artifacts: %v", err)
	}
	log.Infof("wrote stats to %s", *outDir)
}

func logComparison(res *sim.RunResult) {
	fmtAvg := func(s *sim.RunStatistics) string {
		if s.AvgDistance == nil {
			return "n/a"
		}
		return fmt.Sprintf("%.1f", *s.AvgDistance)
	}
	log.Infof("baseline: %d/%d reachable, avg distance %s",
		res.Baseline.Reachable, res.Baseline.TotalAgents, fmtAvg(res.Baseline))
	log.Infof("tramline: %d/%d reachable, avg distance %s",
		res.Tramline.Reachable, res.Tramline.TotalAgents, fmtAvg(res.Tramline))
}

// writeArtifacts writes baseline/tramline stats, both unsuffixed and suffixed
// by the traffic regime ("offpeak", "peak", ...) for downstream consumers.
func writeArtifacts(dir, traffic string, res *sim.RunResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	suffix := strings.ToLower(strings.ReplaceAll(traffic, "-", ""))
	files := map[string]any{
		"baseline_stats.json":                         res.Baseline,
		"tramline_stats.json":                         res.Tramline,
		fmt.Sprintf("baseline_stats_%s.json", suffix): res.Baseline,
		fmt.Sprintf("tramline_stats_%s.json", suffix): res.Tramline,
	}
	for name, v := range files {
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, name), b, 0o644); err != nil {
			return err
		}
	}
	return nil
}
