// Package cliutil holds the small helpers shared by the ram and palgol
// commands: config loading, input tape parsing, token dumps and tape
// rendering.
package cliutil

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lookbusy1344/ram-machine/config"
	"github.com/lookbusy1344/ram-machine/lexer"
)

// LoadConfig loads the toolchain configuration from an explicit path, or
// from the platform default when path is empty.
func LoadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// ParseInputTape converts trailing CLI arguments to the input tape.
func ParseInputTape(args []string) ([]int64, error) {
	tape := make([]int64, 0, len(args))
	for _, arg := range args {
		v, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid input tape cell %q", arg)
		}
		tape = append(tape, v)
	}
	return tape, nil
}

// DumpTokens writes the token stream to w: one token per line in verbose
// mode, otherwise «quoted» values wrapped at the given width.
func DumpTokens(w io.Writer, src lexer.TokenReader, verbose bool, width int) error {
	var values []string
	for {
		tok, err := src.ReadToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if verbose {
			fmt.Fprintln(w, tok)
		} else {
			values = append(values, "«"+tok.Value+"»")
		}
	}
	if !verbose {
		for _, line := range wrapWords(values, width) {
			fmt.Fprintln(w, line)
		}
	}
	return nil
}

// wrapWords joins words with single spaces into lines at most width wide.
func wrapWords(words []string, width int) []string {
	if width <= 0 {
		width = 80
	}
	var lines []string
	var current strings.Builder
	for _, word := range words {
		if current.Len() > 0 && current.Len()+1+len(word) > width {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}

// FormatTape renders a tape as space-separated integers.
func FormatTape(tape []int64) string {
	parts := make([]string, len(tape))
	for i, v := range tape {
		parts[i] = strconv.FormatInt(v, 10)
	}
	return strings.Join(parts, " ")
}
