// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"gopkg.in/urfave/cli.v1"

	"carlos/internal/ast"
	"carlos/internal/compiler"
	"carlos/internal/config"
	"carlos/internal/errors"
	"carlos/internal/ir"
)

var (
	configFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: -4=none, 0=notice, 1=info, 2=debug",
		Value: 0,
	}
	noOptimizeFlag = cli.BoolFlag{
		Name:  "no-optimize",
		Usage: "Skip both the tree and the IR optimizer",
	}
	summaryFlag = cli.BoolFlag{
		Name:  "summary",
		Usage: "Print tuple counts per subroutine before and after IR optimization",
	}

	syntaxCommand = cli.Command{
		Action:    syntax,
		Name:      "syntax",
		Usage:     "Parse a program and print its syntax tree",
		ArgsUsage: "<file>",
	}
	semanticsCommand = cli.Command{
		Action:    semantics,
		Name:      "semantics",
		Usage:     "Analyze a program and print the decorated entity graph",
		ArgsUsage: "<file>",
	}
	quadsCommand = cli.Command{
		Action:    quads,
		Name:      "quads",
		Usage:     "Translate a program and print its tuples",
		ArgsUsage: "<file>",
		Flags:     []cli.Flag{noOptimizeFlag, summaryFlag},
	}
	dumpConfigCommand = cli.Command{
		Action:      dumpConfig,
		Name:        "dumpconfig",
		Usage:       "Show configuration values",
		ArgsUsage:   "[file]",
		Description: `The dumpconfig command shows the effective configuration, optionally writing it to a file.`,
	}
)

func main() {
	app := cli.NewApp()
	app.Name = "carlosc"
	app.Usage = "the Carlos compiler"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{configFileFlag, verbosityFlag}
	app.Commands = []cli.Command{syntaxCommand, semanticsCommand, quadsCommand, dumpConfigCommand}
	app.Before = func(ctx *cli.Context) error {
		commonlog.Configure(ctx.GlobalInt(verbosityFlag.Name), nil)
		return nil
	}

	if err := app.Run(os.Args); err != nil {
		color.Red("%v", err)
		os.Exit(1)
	}
}

// loadConfig applies the config file, if any, over the defaults.
func loadConfig(ctx *cli.Context) (config.Config, error) {
	cfg := config.Defaults
	if file := ctx.GlobalString(configFileFlag.Name); file != "" {
		if err := config.Load(file, &cfg); err != nil {
			return cfg, err
		}
	}
	color.NoColor = color.NoColor || !cfg.Output.Color
	return cfg, nil
}

// compile runs the pipeline on the file named by the first argument and
// prints any diagnostics. The returned error is non-nil when compilation
// cannot go on.
func compile(ctx *cli.Context, cfg config.Config, until compiler.Phase) (*compiler.Result, error) {
	path := ctx.Args().First()
	if path == "" {
		return nil, fmt.Errorf("usage: carlosc %s <file>", ctx.Command.Name)
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	startTime := time.Now()
	result, err := compiler.New(cfg).Compile(path, string(source), until)
	if err != nil {
		return nil, err
	}

	for _, parseErr := range result.ParseErrors {
		fmt.Print(formatError(path, parseErr.Message, parseErr.Position, parseErr.Length, string(source)))
	}
	if len(result.Errors) > 0 {
		fmt.Print(errors.NewErrorReporter(path, string(source)).FormatErrors(result.Errors))
	}

	duration := formatDuration(time.Since(startTime))
	if result.Failed() {
		return nil, fmt.Errorf("compilation failed after %s", duration)
	}
	color.Green("Successfully processed %s in %s", path, duration)
	return result, nil
}

func syntax(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	result, err := compile(ctx, cfg, compiler.PhaseSyntax)
	if err != nil {
		return err
	}
	fmt.Print(ast.Dump(result.Program, ast.NewArena()))
	return nil
}

func semantics(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	result, err := compile(ctx, cfg, compiler.PhaseSemantics)
	if err != nil {
		return err
	}
	fmt.Print(ast.DumpEntities(result.Program, ast.NewArena()))
	return nil
}

func quads(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if ctx.Bool(noOptimizeFlag.Name) {
		cfg.Optimizer.Tree = false
		cfg.Optimizer.IR = false
	}
	result, err := compile(ctx, cfg, compiler.PhaseIROptimization)
	if err != nil {
		return err
	}

	fmt.Print(ir.Print(result.Main))
	if ctx.Bool(summaryFlag.Name) || cfg.Output.Summary {
		fmt.Println()
		writeSummary(os.Stdout, result)
	}
	return nil
}

// writeSummary renders one row per subroutine followed by the rewrite
// counts of each IR pass.
func writeSummary(w io.Writer, result *compiler.Result) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Subroutine", "Level", "Before", "After"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, size := range result.Sizes {
		table.Append([]string{size.Name, strconv.Itoa(size.Level), strconv.Itoa(size.Before), strconv.Itoa(size.After)})
	}
	table.Render()

	if len(result.IRStats) == 0 {
		return
	}
	passes := tablewriter.NewWriter(w)
	passes.SetHeader([]string{"Pass", "Rewrites"})
	for _, name := range result.IRStats.Names() {
		passes.Append([]string{name, strconv.Itoa(result.IRStats[name])})
	}
	passes.SetFooter([]string{"total", strconv.Itoa(result.IRStats.Total())})
	passes.Render()
}

// dumpConfig is the dumpconfig command.
func dumpConfig(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	out, err := cfg.Marshal()
	if err != nil {
		return err
	}

	dump := os.Stdout
	if ctx.NArg() > 0 {
		dump, err = os.OpenFile(ctx.Args().Get(0), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer dump.Close()
	}
	_, err = dump.Write(out)
	return err
}
