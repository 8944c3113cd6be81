package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
)

var stdout io.Writer = os.Stdout

func success(format string, a ...any) {
	green.Fprintf(stdout, "✓ "+format+"\n", a...)
}

func info(format string, a ...any) {
	cyan.Fprintf(stdout, format+"\n", a...)
}

func warning(format string, a ...any) {
	yellow.Fprintf(os.Stderr, "! "+format+"\n", a...)
}

func failure(err error) {
	red.Fprintf(os.Stderr, "Error: ")
	fmt.Fprintln(os.Stderr, err)
}
