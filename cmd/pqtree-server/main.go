package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"

	"github.com/zycbobby/pqtree/controller"
	"github.com/zycbobby/pqtree/core"
	"github.com/zycbobby/pqtree/log"
)

var (
	configPath  string
	port        int
	host        string
	verbose     bool
	veryVerbose bool
	quiet       bool
)

func main() {
	flag.IntVar(&port, "p", 9861, "The listening port.")
	flag.StringVar(&host, "h", "", "The listening host.")
	flag.StringVar(&configPath, "c", "", "The config file. CONFIG REWRITE needs one.")
	flag.BoolVar(&verbose, "v", false, "Enable verbose logging.")
	flag.BoolVar(&quiet, "q", false, "Quiet logging. Totally silent.")
	flag.BoolVar(&veryVerbose, "vv", false, "Enable very verbose logging.")
	flag.Parse()

	var logw io.Writer = os.Stderr
	if quiet {
		logw = io.Discard
	}
	log.Default = log.New(logw, &log.Config{
		HideDebug: !veryVerbose,
		HideWarn:  !(veryVerbose || verbose),
	})

	hostd := ""
	if host != "" {
		hostd = "Addr: " + host + ", "
	}
	gitsha := " (" + core.GitSHA + ")"
	if gitsha == " (0000000)" {
		gitsha = ""
	}

	fmt.Fprintf(logw, `
   _______ _______
  |       |   .   |
  |   .   |       |   pqtree %s%s %d bit (%s/%s)
  |_______|_______|   %sPort: %d, PID: %d
  |       |   .   |
  |   .   |       |
  |_______|_______|
`+"\n", core.Version, gitsha, strconv.IntSize, runtime.GOARCH, runtime.GOOS, hostd, port, os.Getpid())

	if err := controller.ListenAndServe(host, port, configPath); err != nil {
		log.Fatal(err)
	}
}
