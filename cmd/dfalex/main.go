package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"dfalex/internal/version"
)

// errReported: проблемы (токены ERROR, ошибки таблицы) уже напечатаны,
// выходим с кодом 1 без сообщения.
var errReported = errors.New("problems reported")

// newRootCmd собирает дерево команд; вынесено из main ради тестов.
func newRootCmd() (*cobra.Command, func()) {
	root := &cobra.Command{
		Use:           "dfalex",
		Short:         "Table-driven DFA tokenizer",
		Long:          `dfalex splits source files into tokens using a transition table loaded from TOML`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate(version.Describe() + "\n")

	root.AddCommand(newTokenizeCmd())
	root.AddCommand(newTableCmd())
	root.AddCommand(newVersionCmd())

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	pf.String("trace", "", "trace output file (\"-\" for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage mode (stream|ring)")
	pf.Int("trace-ring-size", 4096, "events kept in ring mode")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.String("cpu-profile", "", "write CPU profile to file")
	pf.String("mem-profile", "", "write heap profile to file on exit")
	pf.String("runtime-trace", "", "write Go runtime trace to file")

	var cleanups []func()
	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		stopProfiling, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		cleanups = append(cleanups, stopProfiling)
		stopTracing, err := setupTracing(cmd)
		if err != nil {
			stopProfiling()
			return err
		}
		cleanups = append(cleanups, stopTracing)
		return nil
	}
	// PersistentPostRun не вызывается при ошибке RunE, поэтому чистим снаружи.
	finish := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
		cleanups = nil
	}
	return root, finish
}

// main executes the root command. Any error exits with status 1.
func main() {
	root, finish := newRootCmd()
	err := root.Execute()
	finish()
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves --color for output written to f.
func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch mode {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto", "":
		return os.Getenv("NO_COLOR") == "" && isTerminal(f), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
}
