// Command timecat is a UCI chess engine. Grounded on the teacher's
// zurichess/main.go for flag names and pprof wiring, retargeted to
// construct a uci.Engine instead of the teacher's package-level
// globals.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/seekerror/logw"

	"github.com/kvchess/timecat/nnue"
	"github.com/kvchess/timecat/uci"
)

var (
	buildVersion = "(devel)"

	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	version    = flag.Bool("version", false, "only print version and exit")
	hashMB     = flag.Int("hash", 16, "transposition table size in megabytes")
	threads    = flag.Int("threads", 1, "number of search threads")
	netFile    = flag.String("net", "", "path to a trained NNUE network file; a random network is used if empty")
)

func main() {
	flag.Parse()
	fmt.Printf("timecat %v, built with %v, running on %v\n", buildVersion, runtime.Version(), runtime.GOARCH)
	if *version {
		return
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			logw.Exitf(context.Background(), "cpuprofile: %v", err)
		}
		_ = pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	ctx := context.Background()

	net, err := loadNetwork(*netFile)
	if err != nil {
		logw.Exitf(ctx, "loading NNUE network: %v", err)
	}

	opt, err := uci.LoadConfigFile("timecat.yaml", defaultOptions())
	if err != nil {
		logw.Warningf(ctx, "ignoring timecat.yaml: %v", err)
		opt = defaultOptions()
	}

	e := uci.NewEngine(net, opt)
	driver := uci.NewDriver(ctx, e, func(line string) { uci.WriteStdout(ctx, line) })

	in := uci.ReadStdinLines(ctx)
	driver.Run(in)
}

func defaultOptions() uci.Options {
	opt := uci.DefaultOptions()
	opt.HashMB = *hashMB
	opt.Threads = *threads
	return opt
}

func loadNetwork(path string) (*nnue.Network, error) {
	if path == "" {
		return nnue.NewRandomNetwork(0xC0FFEE), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return nnue.LoadNetwork(f)
}
