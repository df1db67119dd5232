// SPDX-License-Identifier: Apache-2.0

// Command asbuilt views, compares and checksums vehicle AsBuilt files.
package main

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/fatih/color"

	"github.com/asbuiltproj/asbuilt-mcp/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	exitCode := runSafely(os.Args[1:], runWithArgs, os.Stderr)

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

func runSafely(args []string, runner func([]string) int, errWriter io.Writer) (exitCode int) {
	defer func() {
		if r := recover(); r != nil {
			writeError(errWriter, fmt.Sprintf("panic recovered: %v\n%s", r, debug.Stack()))
			exitCode = 1
		}
	}()

	return runner(args)
}

func runWithArgs(args []string) int {
	rootCmd := cli.NewRootCmd(version)
	rootCmd.SetArgs(args)

	if err := cli.Execute(rootCmd); err != nil {
		writeError(rootCmd.ErrOrStderr(), err.Error())
		return 1
	}
	return 0
}

func writeError(w io.Writer, msg string) {
	_, _ = color.New(color.FgRed).Fprintf(w, "✗ %s\n", msg)
}
