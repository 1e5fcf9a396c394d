package main

import (
	"os"

	"github.com/dori/worktrack/internal/cli"
	"github.com/dori/worktrack/internal/debuglog"
)

var (
	version = "0.1.0"
)

func main() {
	err := cli.Execute(version)
	debuglog.Close()
	if err != nil {
		os.Exit(1)
	}
}
