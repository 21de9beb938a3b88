package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/garyburd/redigo/redis"
	"github.com/zycbobby/pqtree/core"
)

var (
	hostname = "127.0.0.1"
	port     = 9861
	clients  = 50
	requests = 100000
	quiet    = false
	pipeline = 1
	csv      = false
	json     = false
	tests    = "PING,INSERT,NEARBY"
	size     = 1000.0
)

var addr string

func showHelp() bool {
	gitsha := ""
	if core.GitSHA != "" && core.GitSHA != "0000000" {
		gitsha = " (git:" + core.GitSHA + ")"
	}
	fmt.Fprintf(os.Stdout, "pqtree-benchmark %s%s\n\n", core.Version, gitsha)
	fmt.Fprintf(os.Stdout, "Usage: pqtree-benchmark [-h <host>] [-p <port>] [-c <clients>] [-n <requests>]\n")

	fmt.Fprintf(os.Stdout, " -h <hostname>      Server hostname (default: %s)\n", hostname)
	fmt.Fprintf(os.Stdout, " -p <port>          Server port (default: %d)\n", port)
	fmt.Fprintf(os.Stdout, " -c <clients>       Number of parallel connections (default %d)\n", clients)
	fmt.Fprintf(os.Stdout, " -n <requests>      Total number or requests (default %d)\n", requests)
	fmt.Fprintf(os.Stdout, " -q                 Quiet. Just show query/sec values\n")
	fmt.Fprintf(os.Stdout, " -P <numreq>        Pipeline <numreq> requests. Default 1 (no pipeline).\n")
	fmt.Fprintf(os.Stdout, " -t <tests>         Only run the comma separated list of tests. The test\n")
	fmt.Fprintf(os.Stdout, "                    names are the same as the ones produced as output.\n")
	fmt.Fprintf(os.Stdout, " -s <size>          Side of the square the points are drawn from (default %v)\n", size)
	fmt.Fprintf(os.Stdout, " --csv              Output in CSV format.\n")
	fmt.Fprintf(os.Stdout, " --json             Request JSON responses (default is RESP output)\n")
	fmt.Fprintf(os.Stdout, "\n")
	return false
}

func parseArgs() bool {
	defer func() {
		if v := recover(); v != nil {
			if v, ok := v.(string); ok && v == "bad arg" {
				showHelp()
			}
		}
	}()

	args := os.Args[1:]
	readArg := func() string {
		if len(args) == 0 {
			panic("bad arg")
		}
		var narg = args[0]
		args = args[1:]
		return narg
	}
	readIntArg := func() int {
		n, err := strconv.ParseUint(readArg(), 10, 64)
		if err != nil {
			panic("bad arg")
		}
		return int(n)
	}
	badArg := func(arg string) bool {
		fmt.Fprintf(os.Stderr, "Unrecognized option or bad number of args for: '%s'\n", arg)
		return false
	}

	for len(args) > 0 {
		arg := readArg()
		if arg == "--help" || arg == "-?" {
			return showHelp()
		}
		if !strings.HasPrefix(arg, "-") {
			args = append([]string{arg}, args...)
			break
		}
		switch arg {
		default:
			return badArg(arg)
		case "-h":
			hostname = readArg()
		case "-p":
			port = readIntArg()
		case "-c":
			clients = readIntArg()
			if clients <= 0 {
				clients = 1
			}
		case "-n":
			requests = readIntArg()
		case "-q":
			quiet = true
		case "-P":
			pipeline = readIntArg()
			if pipeline <= 0 {
				pipeline = 1
			}
		case "-t":
			tests = readArg()
		case "-s":
			f, err := strconv.ParseFloat(readArg(), 64)
			if err != nil || f <= 0 {
				return badArg(arg)
			}
			size = f
		case "--csv":
			csv = true
		case "--json":
			json = true
		}
	}
	return true
}

func randPoint() (x, y float64) {
	return rand.Float64() * size, rand.Float64() * size
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', 5, 64)
}

// bench runs requests commands over clients connections and prints the
// throughput. cmd builds the i-th command.
func bench(name string, cmd func(i int64) (string, []interface{})) {
	var next int64
	var failed int64
	var done int64
	var wg sync.WaitGroup
	stop := make(chan struct{})
	start := time.Now()
	if !quiet && !csv {
		go func() {
			for {
				select {
				case <-stop:
					return
				case <-time.After(time.Second / 4):
					n := atomic.LoadInt64(&done)
					fmt.Fprintf(os.Stderr, "\r%s: %.2f", name, float64(n)/time.Since(start).Seconds())
				}
			}
		}()
	}
	for c := 0; c < clients; c++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conn, err := redis.Dial("tcp", addr)
			if err != nil {
				fmt.Fprintln(os.Stderr, err.Error())
				atomic.AddInt64(&failed, 1)
				return
			}
			defer conn.Close()
			if json {
				if _, err := conn.Do("OUTPUT", "json"); err != nil {
					fmt.Fprintln(os.Stderr, err.Error())
					return
				}
			}
			for {
				var sent int
				for ; sent < pipeline; sent++ {
					i := atomic.AddInt64(&next, 1)
					if i > int64(requests) {
						break
					}
					command, args := cmd(i)
					if err := conn.Send(command, args...); err != nil {
						fmt.Fprintln(os.Stderr, err.Error())
						return
					}
				}
				if sent == 0 {
					return
				}
				if err := conn.Flush(); err != nil {
					fmt.Fprintln(os.Stderr, err.Error())
					return
				}
				for j := 0; j < sent; j++ {
					if _, err := conn.Receive(); err != nil {
						if _, ok := err.(redis.Error); !ok {
							fmt.Fprintln(os.Stderr, err.Error())
							return
						}
						atomic.AddInt64(&failed, 1)
					}
					atomic.AddInt64(&done, 1)
				}
			}
		}()
	}
	wg.Wait()
	close(stop)
	elapsed := time.Since(start)
	n := atomic.LoadInt64(&done)
	rps := float64(n) / elapsed.Seconds()
	switch {
	case csv:
		fmt.Fprintf(os.Stdout, "\"%s\",\"%.2f\"\n", name, rps)
	case quiet:
		fmt.Fprintf(os.Stdout, "%s: %.2f requests per second\n", name, rps)
	default:
		fmt.Fprintf(os.Stderr, "\r")
		fmt.Fprintf(os.Stdout, "====== %s ======\n", name)
		fmt.Fprintf(os.Stdout, "  %d requests completed in %.2f seconds\n", n, elapsed.Seconds())
		fmt.Fprintf(os.Stdout, "  %d parallel clients\n", clients)
		if f := atomic.LoadInt64(&failed); f > 0 {
			fmt.Fprintf(os.Stdout, "  %d errors\n", f)
		}
		fmt.Fprintf(os.Stdout, "\n%.2f requests per second\n\n", rps)
	}
}

func main() {
	rand.Seed(time.Now().UnixNano())
	if !parseArgs() {
		return
	}
	addr = fmt.Sprintf("%s:%d", hostname, port)
	for _, test := range strings.Split(tests, ",") {
		switch strings.ToUpper(strings.TrimSpace(test)) {
		case "PING":
			bench("PING", func(i int64) (string, []interface{}) {
				return "PING", nil
			})
		case "INSERT":
			bench("INSERT", func(i int64) (string, []interface{}) {
				x, y := randPoint()
				return "INSERT", []interface{}{"key:bench", ftoa(x), ftoa(y), "id:" + strconv.FormatInt(i, 10)}
			})
		case "NEARBY":
			for _, r := range []float64{1, 10, 100} {
				r := r * size / 1000
				bench("NEARBY (radius "+strconv.FormatFloat(r, 'f', -1, 64)+")", func(i int64) (string, []interface{}) {
					x, y := randPoint()
					return "NEARBY", []interface{}{"key:bench", ftoa(x), ftoa(y), ftoa(r), "COUNT"}
				})
			}
		}
	}
}
