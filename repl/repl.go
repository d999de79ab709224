// Package repl SPDX-License-Identifier: Apache-2.0
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"carlos/internal/compiler"
	"carlos/internal/config"
	"carlos/internal/errors"
	"carlos/internal/ir"
)

const PROMPT = ">> "

// Start compiles every line read from in as a whole program and writes its
// optimized tuples, or its diagnostics, to out. It returns at end of input.
func Start(in io.Reader, out io.Writer, cfg config.Config) {
	scanner := bufio.NewScanner(in)
	c := compiler.New(cfg)

	for {
		fmt.Fprint(out, PROMPT)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		result, err := c.Compile("<repl>", line, compiler.PhaseIROptimization)
		if err != nil {
			fmt.Fprintf(out, "internal error: %v\n", err)
			continue
		}
		for _, parseErr := range result.ParseErrors {
			fmt.Fprintf(out, "%s\n", parseErr.Error())
		}
		if len(result.Errors) > 0 {
			fmt.Fprint(out, errors.NewErrorReporter("<repl>", line).FormatErrors(result.Errors))
		}
		if result.Failed() {
			continue
		}

		fmt.Fprint(out, ir.Print(result.Main))
	}
}
