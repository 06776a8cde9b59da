package main

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/schemadoc/schema2md/cmd"
)

//go:embed version.txt
var Version string

func main() {
	if err := cmd.NewCommand(os.Stdout, strings.TrimSpace(Version)).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
