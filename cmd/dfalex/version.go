package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"dfalex/internal/version"
)

type versionPayload struct {
	Tool string `json:"tool"`
	version.Info
}

func newVersionCmd() *cobra.Command {
	var (
		format   string
		showHash bool
		showDate bool
		showFull bool
	)
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show dfalex build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if err := checkFormat(format); err != nil {
				return err
			}
			info := version.Current()
			if !showHash && !showFull {
				info.GitCommit, info.Modified = "", false
			} else if info.GitCommit == "" {
				info.GitCommit = "unknown"
			}
			if !showDate && !showFull {
				info.BuildDate = ""
			} else if info.BuildDate == "" {
				info.BuildDate = "unknown"
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(versionPayload{Tool: "dfalex", Info: info})
			}
			fmt.Fprintln(out, "dfalex "+version.Colored(info.Version))
			if info.GitCommit != "" {
				fmt.Fprintf(out, "commit: %s\n", info.GitCommit)
			}
			if info.BuildDate != "" {
				fmt.Fprintf(out, "built:  %s\n", info.BuildDate)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showHash, "hash", false, "include git commit hash")
	cmd.Flags().BoolVar(&showDate, "date", false, "include build timestamp")
	cmd.Flags().BoolVar(&showFull, "full", false, "show all recorded build metadata")
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")
	return cmd
}
