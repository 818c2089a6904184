package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/kr/pretty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/outfield-lang/outfieldc/internal/cache"
	"github.com/outfield-lang/outfieldc/internal/clitext"
	"github.com/outfield-lang/outfieldc/internal/compiler"
	"github.com/outfield-lang/outfieldc/internal/config"
	"github.com/outfield-lang/outfieldc/internal/diag"
	"github.com/outfield-lang/outfieldc/internal/parser"
	"github.com/outfield-lang/outfieldc/internal/project"
	"github.com/outfield-lang/outfieldc/internal/watch"
)

var rootCmd = &cobra.Command{
	Use:   "outfieldc <input>",
	Short: "Compile Outfield source to Lua or Luau",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCompile,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Flags().String("target", "luau", "emit target: luau|lua")
	rootCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	rootCmd.Flags().Int("max-errors", 0, "truncate reported errors to N (0 = unlimited)")
	rootCmd.Flags().Bool("dump-ast", false, "print the parsed AST and exit, skipping compilation")
	rootCmd.Flags().Bool("watch", false, "recompile on source changes")
	rootCmd.Flags().String("project", "", "path to a multi-module project manifest (compile_modules)")
	_ = viper.BindPFlag("target", rootCmd.Flags().Lookup("target"))
}

func initConfig() {
	viper.SetEnvPrefix("OUTFIELDC")
	viper.AutomaticEnv()
	viper.SetConfigName(".outfieldc")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	_ = viper.ReadInConfig()
}

func runCompile(cmd *cobra.Command, args []string) error {
	targetStr := viper.GetString("target")
	warningsAsErrors, _ := cmd.Flags().GetBool("warnings-as-errors")
	maxErrors, _ := cmd.Flags().GetInt("max-errors")
	dumpAST, _ := cmd.Flags().GetBool("dump-ast")
	watchMode, _ := cmd.Flags().GetBool("watch")
	projectPath, _ := cmd.Flags().GetString("project")

	target, ok := config.ParseTarget(targetStr)
	if !ok {
		return fmt.Errorf("unknown target %q", targetStr)
	}

	if projectPath != "" {
		return compileProject(projectPath, target, warningsAsErrors, maxErrors)
	}
	if len(args) != 1 {
		return fmt.Errorf("exactly one <input> is required unless --project is set")
	}
	input := args[0]
	opts := config.Options{Target: target, Filename: input, Enable: config.AllPassesEnabled()}

	if dumpAST {
		return dumpASTAndExit(input)
	}
	if watchMode {
		return runWatch(input, opts, warningsAsErrors, maxErrors)
	}
	return compileOnce(input, opts, warningsAsErrors, maxErrors)
}

// compileProject runs compile_modules() over every module in a project
// manifest (spec §4.5) and prints each module's emitted output to stdout
// under a `--- <module> ---` header.
func compileProject(projectPath string, target config.Target, warningsAsErrors bool, maxErrors int) error {
	manifest, err := project.Load(projectPath)
	if err != nil {
		return err
	}
	sources, err := manifest.Sources(projectPath)
	if err != nil {
		return err
	}
	if manifestTarget, ok := config.ParseTarget(manifest.Target); ok && manifest.Target != "" {
		target = manifestTarget
	}
	opts := config.Options{Target: target, Enable: config.AllPassesEnabled()}

	outputs, sink := compiler.CompileModules(sources, opts)
	colorize := clitext.IsTerminal(os.Stderr)
	if warningsAsErrors {
		sink.PromoteWarningsToErrors()
	}
	sink.TruncateErrors(maxErrors)
	if report := sink.Format(); report != "" {
		clitext.Write(os.Stderr, report, colorize)
		fmt.Fprintln(os.Stderr, clitext.Summary(sink.CountErrors(), warningCount(sink), colorize))
	}
	if sink.HasErrors() {
		os.Exit(1)
	}

	for name, out := range outputs {
		fmt.Fprintf(os.Stdout, "--- %s ---\n%s", name, out)
	}
	return nil
}

func dumpASTAndExit(input string) error {
	src, err := os.ReadFile(input)
	if err != nil {
		return err
	}
	prog, perr := parser.Parse(input, string(src))
	if perr != nil {
		fmt.Fprintln(os.Stderr, perr)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, "%# v\n", pretty.Formatter(prog))
	return nil
}

func compileOnce(input string, opts config.Options, warningsAsErrors bool, maxErrors int) error {
	src, err := os.ReadFile(input)
	if err != nil {
		return err
	}

	start := time.Now()
	output, sink := compiler.Compile(string(src), opts)
	if warningsAsErrors {
		sink.PromoteWarningsToErrors()
	}
	sink.TruncateErrors(maxErrors)

	colorize := clitext.IsTerminal(os.Stderr)
	if report := sink.Format(); report != "" {
		clitext.Write(os.Stderr, report, colorize)
		fmt.Fprintln(os.Stderr, clitext.Summary(sink.CountErrors(), warningCount(sink), colorize))
	}
	if sink.HasErrors() {
		os.Exit(1)
	}

	fmt.Print(output)
	fmt.Fprintf(os.Stderr, "compiled %s (%s) in %s\n", input, humanize.Bytes(uint64(len(output))), time.Since(start).Round(time.Millisecond))
	return nil
}

func warningCount(sink *diag.Sink) int {
	n := 0
	for _, d := range sink.Diagnostics() {
		if d.Severity == diag.SeverityWarning {
			n++
		}
	}
	return n
}

// runWatch recompiles input whenever it changes, using the persistent
// compile cache to skip unchanged rebuilds.
func runWatch(input string, opts config.Options, warningsAsErrors bool, maxErrors int) error {
	ctx := context.Background()
	dbPath := filepath.Join(filepath.Dir(input), ".outfieldc-cache.db")
	c, err := cache.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer c.Close()

	compileAndReport := func(ctx context.Context, path string) error {
		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		key := cache.Key(path, string(src), opts)
		if _, hit, _ := c.Lookup(ctx, key); hit {
			fmt.Fprintf(os.Stderr, "%s: cache hit\n", path)
			return nil
		}

		unitOpts := opts
		unitOpts.Filename = path
		output, sink := compiler.Compile(string(src), unitOpts)
		if warningsAsErrors {
			sink.PromoteWarningsToErrors()
		}
		sink.TruncateErrors(maxErrors)
		if report := sink.Format(); report != "" {
			colorize := clitext.IsTerminal(os.Stderr)
			clitext.Write(os.Stderr, report, colorize)
			fmt.Fprintln(os.Stderr, clitext.Summary(sink.CountErrors(), warningCount(sink), colorize))
		}
		if sink.HasErrors() {
			return nil
		}
		return c.Store(ctx, key, output)
	}

	if err := compileAndReport(ctx, input); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	w, err := watch.New(filepath.Dir(input))
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	fmt.Fprintf(os.Stderr, "watching %s for changes\n", input)
	for {
		select {
		case ev := <-w.Events:
			if err := watch.RecompileAll(ctx, ev.Files, compileAndReport); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		case err := <-w.Errors:
			fmt.Fprintln(os.Stderr, err)
		}
	}
}
