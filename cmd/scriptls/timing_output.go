package main

import (
	"fmt"
	"io"

	"scriptls/internal/observ"
)

func printTimings(out io.Writer, report observ.Report) {
	if out == nil || len(report.Phases) == 0 {
		return
	}
	for _, phase := range report.Phases {
		if _, err := fmt.Fprintf(out, "%s %.1f ms\n", phase.Name, phase.DurationMS); err != nil {
			panic(err)
		}
	}
	if _, err := fmt.Fprintf(out, "total %.1f ms\n", report.TotalMS); err != nil {
		panic(err)
	}
}
