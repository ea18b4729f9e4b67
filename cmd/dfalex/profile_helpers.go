package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dfalex/internal/prof"
)

// setupProfiling starts profilers requested by persistent flags. The
// returned cleanup is safe to call more than once.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	root := cmd.Root().PersistentFlags()

	var cfg prof.Config
	var err error
	if cfg.CPU, err = root.GetString("cpu-profile"); err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if cfg.Mem, err = root.GetString("mem-profile"); err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if cfg.Trace, err = root.GetString("runtime-trace"); err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}

	session, err := prof.Start(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to start profiling: %w", err)
	}
	return func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "failed to write profiles: %v\n", err)
		}
	}, nil
}
