package main

import (
	"fmt"
	"os"

	"qachat/cmd"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = ""

func main() {
	cmd.SetVersion(Version)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
