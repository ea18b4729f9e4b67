package main

import (
	"fmt"
	"io"

	"dfalex/internal/observ"
)

func printTimings(out io.Writer, timer *observ.Timer) {
	if out == nil || timer == nil {
		return
	}
	if _, err := fmt.Fprint(out, timer.Summary()); err != nil {
		panic(err)
	}
}
