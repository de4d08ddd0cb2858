package report

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorDim    = "\033[2m"
)

// TextOptions controls the plain text rendering
type TextOptions struct {
	Color bool
}

// WriteText renders the report as aligned text tables
func WriteText(w io.Writer, r Report, opts TextOptions) error {
	paint := func(color, s string) string {
		if !opts.Color {
			return s
		}
		return color + s + colorReset
	}

	var b strings.Builder

	fmt.Fprintf(&b, "\nModel run %s\n", r.RunID)
	fmt.Fprintf(&b, "Cycles: %d   Users processed: %d   Elapsed: %s\n\n",
		r.Cycles, r.Processed, (time.Duration(r.ElapsedMs) * time.Millisecond).String())

	nameColWidth := 12
	for _, row := range r.Containers {
		if len(row.Name)+2 > nameColWidth {
			nameColWidth = len(row.Name) + 2
		}
	}
	zoneColWidth := 10
	for _, z := range r.Zones {
		if len(z.ID)+2 > zoneColWidth {
			zoneColWidth = len(z.ID) + 2
		}
	}
	unit := r.Unit

	fmt.Fprintf(&b, "%-*s%-*s%-12s%12s%12s%8s\n", nameColWidth, "Container", zoneColWidth, "Zone", "Fraction", "Filling", "Capacity", "Fill")
	for _, row := range r.Containers {
		ratio := fmt.Sprintf("%.0f%%", row.FillRatio*100)
		if row.Capacity == 0 {
			ratio = "-"
		}
		line := fmt.Sprintf("%-*s%-*s%-12s%12s%12s%8s",
			nameColWidth, displayName(row), zoneColWidth, zoneLabel(row.Zone), row.Fraction,
			formatQuantity(row.Filling, unit), formatQuantity(row.Capacity, unit), ratio)
		switch {
		case row.Overflowing:
			line = paint(colorRed, line)
		case row.Filling == 0:
			line = paint(colorDim, line)
		}
		b.WriteString(line + "\n")
	}

	fmt.Fprintf(&b, "\n%-*s%12s%12s%12s\n", zoneColWidth, "Zone", "Containers", "Filling", "Capacity")
	for _, z := range r.Zones {
		fmt.Fprintf(&b, "%-*s%12d%12s%12s\n", zoneColWidth, zoneLabel(z.ID), z.Containers,
			formatQuantity(z.Filling, unit), formatQuantity(z.Capacity, unit))
	}

	fractions := make([]string, 0, len(r.Distributed))
	for fraction := range r.Distributed {
		fractions = append(fractions, fraction)
	}
	slices.Sort(fractions)

	fmt.Fprintf(&b, "\nDistributed\n")
	for _, fraction := range fractions {
		fmt.Fprintf(&b, "  %-12s%s\n", fraction, formatQuantity(r.Distributed[fraction], unit))
	}

	if overflowing := r.Overflowing(); len(overflowing) > 0 {
		b.WriteString(paint(colorRed, fmt.Sprintf("\n%d container(s) over capacity\n", len(overflowing))))
	}

	if len(r.NoProduction) > 0 {
		b.WriteString(paint(colorYellow, fmt.Sprintf("\nNo production defined for %d user(s): %s\n",
			len(r.NoProduction), strings.Join(r.NoProduction, ", "))))
	}

	if len(r.Failures) > 0 {
		b.WriteString(paint(colorRed, fmt.Sprintf("\n%d failure(s)\n", len(r.Failures))))
		for _, f := range r.Failures {
			fmt.Fprintf(&b, "  %s %s: %s\n", f.Kind, f.RecordID, f.Error)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func displayName(row ContainerRow) string {
	if row.Name != "" {
		return row.Name
	}
	return row.ID
}

func zoneLabel(zone string) string {
	if zone == "" {
		return "(none)"
	}
	return zone
}

func formatQuantity(q float64, unit string) string {
	if unit == "" {
		return fmt.Sprintf("%.3f", q)
	}
	return fmt.Sprintf("%.3f %s", q, unit)
}
