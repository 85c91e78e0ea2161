package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/oledwalk/internal/metrics"
)

func printSummary(out io.Writer, s *metrics.Summary) {
	status := "completed"
	if s.Aborted {
		status = "interrupted"
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "walk %s\n", status)
	if s.Target > 0 {
		fmt.Fprintf(w, "steps\t%d/%d\n", s.Steps, s.Target)
	} else {
		fmt.Fprintf(w, "steps\t%d\n", s.Steps)
	}
	fmt.Fprintf(w, "walked\t%.1f m\n", s.Values["distance_m"])
	fmt.Fprintf(w, "displacement\t%.1f px\n", s.Values["displacement_px"])
	fmt.Fprintf(w, "final position\t%.1f, %.1f px\n", s.FinalX, s.FinalY)
	fmt.Fprintf(w, "rests\t%.0f\n", s.Values["rests"])
	fmt.Fprintf(w, "mean energy\t%.2f\n", s.Values["energy"])
	fmt.Fprintf(w, "time paused\t%s\n", s.Paused.Round(time.Millisecond))
	w.Flush()

	if len(s.Energy) > 1 {
		graph := asciigraph.Plot(s.Energy,
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.LowerBound(0),
			asciigraph.UpperBound(1),
			asciigraph.Caption("energy per step"),
		)
		fmt.Fprintf(out, "\n%s\n", graph)
	}
}
