package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"dfalex/internal/automaton"
	"dfalex/internal/diag"
	"dfalex/internal/driver"
)

func newTableCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Inspect transition tables",
	}
	cmd.AddCommand(newTableCheckCmd(), newTableDumpCmd(), newTableCacheCmd())
	return cmd
}

func newTableCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Parse and validate a table (builtin when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := tableArg(args)
			tab, err := driver.LoadTable(cmd.Context(), path, nil)
			if err != nil {
				reportTableErrors(cmd.ErrOrStderr(), displayTablePath(path), err)
				return errReported
			}
			quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
			if err != nil {
				return fmt.Errorf("failed to get quiet flag: %w", err)
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok, %d states, %d final, %d reserved words\n",
					displayTablePath(path), len(tab.States()), len(tab.FinalStates()), len(tab.ReservedWords()))
			}
			return nil
		},
	}
}

func newTableDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump [file]",
		Short: "Print a table in canonical TOML form",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := tableArg(args)
			tab, err := driver.LoadTable(cmd.Context(), path, nil)
			if err != nil {
				reportTableErrors(cmd.ErrOrStderr(), displayTablePath(path), err)
				return errReported
			}
			data, err := automaton.Format(tab)
			if err != nil {
				return fmt.Errorf("format table: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newTableCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the compiled table cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clean",
		Short: "Remove every cached compiled table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := driver.OpenTableCache("dfalex")
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			if err := cache.DropAll(); err != nil {
				return fmt.Errorf("clean cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", cache.Dir())
			return nil
		},
	})
	return cmd
}

// tableArg: явный аргумент, иначе таблица из dfalex.toml, иначе встроенная.
func tableArg(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	manifest, ok, err := loadProjectManifest(".")
	if err != nil || !ok {
		return ""
	}
	return manifest.tablePath()
}

func displayTablePath(path string) string {
	if path == "" {
		return "<builtin>"
	}
	return path
}

// reportTableErrors prints one line per joined validation error.
func reportTableErrors(w io.Writer, path string, err error) {
	var lines []string
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		for _, e := range joined.Unwrap() {
			lines = append(lines, strings.Split(e.Error(), "\n")...)
		}
	} else {
		lines = strings.Split(err.Error(), "\n")
	}
	for _, line := range lines {
		if line == "" {
			continue
		}
		fmt.Fprintf(w, "%s: %s %s: %s\n", path, diag.SevError, diag.TableInvalid.ID(), line)
	}
}
