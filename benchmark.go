package main

import (
	"flag"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"git.fiblab.net/sim/tramsim/sim"
)

var (
	benchmarkCount = flag.Int("benchmark.count", 10, "the run count for benchmark")
	benchmarkSeed  = flag.Int64("benchmark.seed", 0, "the seed for benchmark")
	benchmarkCPU   = flag.Int("benchmark.cpu", 1, "the cpu count for benchmark")
)

// 重复执行完整仿真流程，每次run独立加载路网副本，可多goroutine并发
func runBenchmark(cfg *sim.Config, loader sim.NetworkLoader, stops sim.StopSource) {
	log.Logger.SetLevel(logrus.WarnLevel)
	// 并发run前先归一化配置，之后Run内的Normalize为只读空操作
	cfg.Normalize()

	start := time.Now()
	var success atomic.Int32
	runOne := func(i int) {
		rng := rand.New(rand.NewSource(*benchmarkSeed + int64(i)))
		res, err := sim.Run(cfg, loader, stops, rng)
		if err != nil {
			log.Error("benchmark failed, err:", err)
			return
		}
		if res.State == sim.StateAggregated {
			success.Add(1)
		}
	}
	if *benchmarkCPU == 1 {
		for i := 0; i < *benchmarkCount; i++ {
			runOne(i)
		}
	} else {
		// 设置cpu数量
		runtime.GOMAXPROCS(*benchmarkCPU)
		var wg sync.WaitGroup
		wg.Add(*benchmarkCount)
		for i := 0; i < *benchmarkCount; i++ {
			go func(i int) {
				defer wg.Done()
				runOne(i)
			}(i)
		}
		wg.Wait()
	}
	timeCost := time.Since(start)
	log.Error(
		"benchmark finished", "\n",
		"count:", *benchmarkCount, "\n",
		"time:", timeCost, "\n",
		"avg:", timeCost/time.Duration(*benchmarkCount), "\n",
		"success:", success.Load(), "\n",
	)
}
