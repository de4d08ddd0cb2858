package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/binfill/internal/observability"
	"github.com/jakechorley/binfill/pkg/core/schedule"
	"github.com/jakechorley/binfill/pkg/core/services"
	"github.com/jakechorley/binfill/pkg/report"
)

const dateLayout = "2006-01-02"

// RunCmd creates the run command
func RunCmd(app *AppContext) *cobra.Command {
	var (
		from        string
		to          string
		format      string
		output      string
		metricsFile string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Distribute every user's production over the containers and report fill levels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validFormat(format) {
				return fmt.Errorf("format must be one of text, json, geojson, got: %s", format)
			}

			start, end, err := parseDateRange(from, to, time.Now())
			if err != nil {
				return err
			}

			cycles, err := schedule.Cycles(app.Cfg.Cycle.RRule, start, end)
			if err != nil {
				return err
			}
			if len(cycles) == 0 {
				return fmt.Errorf("no production cycle starts between %s and %s", start.Format(dateLayout), end.Format(dateLayout))
			}

			app.Logger.Debug("run command",
				zap.Time("from", start),
				zap.Time("to", end),
				zap.Int("cycles", len(cycles)),
				zap.String("format", format))

			input, err := services.LoadModel(app.Ctx, app.Source, app.Logger)
			if err != nil {
				return err
			}

			var collector *observability.RunCollector
			var recorder services.RunRecorder
			if metricsFile != "" {
				collector, err = observability.NewRunCollector(prometheus.NewRegistry())
				if err != nil {
					return fmt.Errorf("failed to register metrics: %w", err)
				}
				recorder = collector
			}

			result, err := services.RunModel(app.Ctx, input, app.Allocator, app.Production, cycles, recorder, app.Logger)
			if err != nil {
				return err
			}

			if collector != nil {
				if err := collector.WriteTextfile(metricsFile); err != nil {
					return err
				}
				app.Logger.Info("Metrics written", zap.String("path", metricsFile))
			}

			var w io.Writer = os.Stdout
			color := true
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				w = f
				color = false
			}

			if err := writeReport(w, format, report.Build(result, app.Cfg.ProductionUnit), color); err != nil {
				return err
			}

			if result.HasFailures() {
				return fmt.Errorf("%d user(s) and %d record(s) could not be processed", len(result.Failures), len(result.RecordErrors))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First day of the run (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&to, "to", "", "Last day of the run (YYYY-MM-DD, default --from)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Report format: text, json or geojson")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write run metrics in Prometheus text format to this file")

	return cmd
}

func validFormat(format string) bool {
	switch format {
	case "text", "json", "geojson":
		return true
	}
	return false
}

// parseDateRange resolves the --from/--to flags. An empty from is today and an
// empty to is from.
func parseDateRange(from, to string, now time.Time) (time.Time, time.Time, error) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if from != "" {
		parsed, err := time.Parse(dateLayout, from)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from date (use YYYY-MM-DD): %w", err)
		}
		start = parsed
	}

	end := start
	if to != "" {
		parsed, err := time.Parse(dateLayout, to)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to date (use YYYY-MM-DD): %w", err)
		}
		end = parsed
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("--to %s is before --from %s", end.Format(dateLayout), start.Format(dateLayout))
	}

	return start, end, nil
}

func writeReport(w io.Writer, format string, r report.Report, color bool) error {
	switch format {
	case "json":
		return report.WriteJSON(w, r)
	case "geojson":
		return report.WriteGeoJSON(w, r)
	default:
		return report.WriteText(w, r, report.TextOptions{Color: color})
	}
}
