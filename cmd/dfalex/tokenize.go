package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"dfalex/internal/automaton"
	"dfalex/internal/diag"
	"dfalex/internal/diagfmt"
	"dfalex/internal/driver"
	"dfalex/internal/observ"
	"dfalex/internal/source"
	"dfalex/internal/token"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] <file|dir>",
		Short: "Tokenize a source file or every matching file in a directory",
		Long: `Tokenize splits input into tokens with the builtin table or the one given
by --table (or [lexer].table in dfalex.toml). Error tokens are reported as
diagnostics on stderr and make the command exit with status 1.`,
		Args: cobra.ExactArgs(1),
		RunE: runTokenize,
	}
	f := cmd.Flags()
	f.String("format", "pretty", "output format (pretty|json)")
	f.String("diag-format", "pretty", "diagnostics format on stderr (pretty|short|json)")
	f.String("table", "", "transition table in TOML (builtin when empty)")
	f.Int("jobs", 0, "max files tokenized in parallel (0 = GOMAXPROCS)")
	f.StringSlice("ext", nil, "file extensions scanned in directories (default .src)")
	ui := uiModeAuto
	f.Var(&ui, "ui", "progress UI for directories")
	f.Bool("no-cache", false, "do not read or write the compiled table cache")
	return cmd
}

type tokenizeSettings struct {
	format         string
	diagFormat     string
	table          string
	jobs           int
	exts           []string
	ui             uiMode
	noCache        bool
	maxDiagnostics int
	quiet          bool
	timings        bool
}

// readTokenizeSettings merges flags with dfalex.toml; explicitly set flags win.
func readTokenizeSettings(cmd *cobra.Command) (tokenizeSettings, error) {
	var st tokenizeSettings
	var err error
	flags := cmd.Flags()

	if st.format, err = flags.GetString("format"); err != nil {
		return st, fmt.Errorf("failed to get format flag: %w", err)
	}
	if st.diagFormat, err = flags.GetString("diag-format"); err != nil {
		return st, fmt.Errorf("failed to get diag-format flag: %w", err)
	}
	switch st.diagFormat {
	case "pretty", "short", "json":
	default:
		return st, fmt.Errorf("unknown diag-format %q (expected pretty|short|json)", st.diagFormat)
	}
	if st.table, err = flags.GetString("table"); err != nil {
		return st, fmt.Errorf("failed to get table flag: %w", err)
	}
	if st.jobs, err = flags.GetInt("jobs"); err != nil {
		return st, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if st.exts, err = flags.GetStringSlice("ext"); err != nil {
		return st, fmt.Errorf("failed to get ext flag: %w", err)
	}
	if mode, ok := flags.Lookup("ui").Value.(*uiMode); ok {
		st.ui = *mode
	}
	if st.noCache, err = flags.GetBool("no-cache"); err != nil {
		return st, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	root := cmd.Root().PersistentFlags()
	if st.maxDiagnostics, err = root.GetInt("max-diagnostics"); err != nil {
		return st, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if st.quiet, err = root.GetBool("quiet"); err != nil {
		return st, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if st.timings, err = root.GetBool("timings"); err != nil {
		return st, fmt.Errorf("failed to get timings flag: %w", err)
	}

	manifest, _, err := loadProjectManifest(".")
	if err != nil {
		return st, err
	}
	if manifest != nil {
		if !flags.Changed("table") {
			st.table = manifest.tablePath()
		}
		if !flags.Changed("ext") && len(manifest.Config.Lexer.Extensions) > 0 {
			st.exts = manifest.Config.Lexer.Extensions
		}
		if !flags.Changed("format") && manifest.Config.Output.Format != "" {
			st.format = manifest.Config.Output.Format
		}
	}
	if len(st.exts) == 0 {
		st.exts = driver.DefaultExtensions
	}
	return st, checkFormat(st.format)
}

func runTokenize(cmd *cobra.Command, args []string) error {
	st, err := readTokenizeSettings(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	var timer *observ.Timer
	if st.timings {
		timer = observ.NewTimer()
	}

	tab, err := loadTable(ctx, cmd, st, timer)
	if err != nil {
		return err
	}

	colorOut, err := useColor(cmd, os.Stdout)
	if err != nil {
		return err
	}
	colorErr, err := useColor(cmd, os.Stderr)
	if err != nil {
		return err
	}

	opts := driver.Options{
		Table:          tab,
		MaxDiagnostics: st.maxDiagnostics,
		Jobs:           st.jobs,
		Extensions:     st.exts,
		Timer:          timer,
	}

	target := args[0]
	info, err := os.Stat(target)
	if err != nil {
		return err
	}

	var hadErrors bool
	if info.IsDir() {
		hadErrors, err = tokenizeDirectory(ctx, stdout, stderr, target, opts, st, colorOut, colorErr)
	} else {
		hadErrors, err = tokenizeSingle(ctx, stdout, stderr, target, opts, st, colorOut, colorErr)
	}
	if err != nil {
		return err
	}

	if st.timings {
		printTimings(stderr, timer)
	}
	if hadErrors {
		return errReported
	}
	return nil
}

func loadTable(ctx context.Context, cmd *cobra.Command, st tokenizeSettings, timer *observ.Timer) (*automaton.Table, error) {
	var cache *driver.TableCache
	if !st.noCache && st.table != "" {
		var err error
		if cache, err = driver.OpenTableCache("dfalex"); err != nil && !st.quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "WARNING %s: %v\n", diag.TableCache.ID(), err)
		}
	}
	lap := timer.Start("load_table")
	tab, err := driver.LoadTable(ctx, st.table, cache)
	lap.Stop(st.table)
	if err != nil {
		return nil, fmt.Errorf("load table: %w", err)
	}
	return tab, nil
}

func tokenizeSingle(ctx context.Context, stdout, stderr io.Writer, path string, opts driver.Options, st tokenizeSettings, colorOut, colorErr bool) (bool, error) {
	res, err := driver.Tokenize(ctx, path, opts)
	if err != nil {
		return false, fmt.Errorf("tokenization failed: %w", err)
	}

	if err := writeDiagnostics(stderr, res.Bag, res.FileSet, st, colorErr, diagfmt.PathModeAuto); err != nil {
		return false, err
	}

	switch st.format {
	case "json":
		err = diagfmt.FormatTokensJSON(stdout, res.Tokens)
	default:
		var file = res.File
		if st.quiet {
			file = nil
		}
		err = diagfmt.FormatTokensPretty(stdout, res.Tokens, file, diagfmt.TokenOpts{Color: colorOut})
	}
	return res.Bag.HasErrors() || hasErrorTokens(res.Tokens), err
}

// hasErrorTokens: статус выхода не должен зависеть от --max-diagnostics.
func hasErrorTokens(tokens []token.Token) bool {
	return slices.ContainsFunc(tokens, func(t token.Token) bool { return t.Kind == token.Error })
}

func tokenizeDirectory(ctx context.Context, stdout, stderr io.Writer, dir string, opts driver.Options, st tokenizeSettings, colorOut, colorErr bool) (bool, error) {
	var (
		fs      *source.FileSet
		results []driver.TokenizeDirResult
		err     error
	)
	if shouldUseTUI(st.ui) && !st.quiet {
		files, listErr := driver.ListFiles(dir, st.exts)
		if listErr != nil {
			return false, listErr
		}
		fs, results, err = runTokenizeDirWithUI(ctx, dir, files, opts)
	} else {
		fs, results, err = driver.TokenizeDir(ctx, dir, opts)
	}
	if err != nil {
		return false, fmt.Errorf("tokenization failed: %w", err)
	}

	all := diag.NewBag(st.maxDiagnostics)
	hadErrors := false
	tokens := 0
	for _, r := range results {
		all.Merge(r.Bag)
		hadErrors = hadErrors || r.Bag.HasErrors() || hasErrorTokens(r.Tokens)
		tokens += len(r.Tokens)
	}

	if st.format == "json" {
		out := make([]diagfmt.FileTokensOutput, 0, len(results))
		for _, r := range results {
			rel, relErr := filepath.Rel(dir, r.Path)
			if relErr != nil {
				rel = r.Path
			}
			out = append(out, diagfmt.FileTokensOutput{
				File:        filepath.ToSlash(rel),
				Tokens:      diagfmt.BuildTokensOutput(r.Tokens),
				Diagnostics: diagfmt.BuildDiagnosticsOutput(r.Bag, fs, diagfmt.JSONOpts{PathMode: diagfmt.PathModeRelative, IncludeNotes: true}).Diagnostics,
			})
		}
		return hadErrors, diagfmt.FormatFilesJSON(stdout, out)
	}

	if err := writeDiagnostics(stderr, all, fs, st, colorErr, diagfmt.PathModeRelative); err != nil {
		return hadErrors, err
	}
	printed := false
	for _, r := range results {
		if r.Tokens == nil {
			continue
		}
		if printed {
			fmt.Fprintln(stdout)
		}
		printed = true
		err := diagfmt.FormatTokensPretty(stdout, r.Tokens, fs.Get(r.FileID), diagfmt.TokenOpts{
			Color:    colorOut,
			PathMode: diagfmt.PathModeRelative,
		})
		if err != nil {
			return hadErrors, err
		}
	}
	if !st.quiet {
		fmt.Fprintf(stderr, "%d files, %d tokens, %d errors, %d warnings\n",
			len(results), tokens, all.Count(diag.SevError), all.Count(diag.SevWarning))
	}
	return hadErrors, nil
}

// writeDiagnostics renders bag on w in the --diag-format layout.
func writeDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet, st tokenizeSettings, color bool, pathMode diagfmt.PathMode) error {
	if bag.Len() > 0 {
		bag.Sort()
		switch st.diagFormat {
		case "json":
			return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{PathMode: pathMode, IncludeNotes: true})
		case "short":
			if _, err := fmt.Fprintln(w, diag.FormatShort(bag.Items(), fs, true)); err != nil {
				return err
			}
		default:
			diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
				Color:     color,
				PathMode:  pathMode,
				ShowNotes: true,
			})
		}
	}
	if n := bag.Dropped(); n > 0 && !st.quiet && st.diagFormat != "json" {
		fmt.Fprintf(w, "... %d more diagnostics not shown (--max-diagnostics)\n", n)
	}
	return nil
}
