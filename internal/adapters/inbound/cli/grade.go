package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/openkraft/autograder/internal/adapters/outbound/cache"
	"github.com/openkraft/autograder/internal/adapters/outbound/config"
	"github.com/openkraft/autograder/internal/adapters/outbound/gitinfo"
	"github.com/openkraft/autograder/internal/adapters/outbound/history"
	"github.com/openkraft/autograder/internal/adapters/outbound/process"
	"github.com/openkraft/autograder/internal/adapters/outbound/scanner"
	"github.com/openkraft/autograder/internal/adapters/outbound/sink"
	"github.com/openkraft/autograder/internal/adapters/outbound/tui"
	"github.com/openkraft/autograder/internal/application"
	"github.com/openkraft/autograder/internal/domain"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type gradeOptions struct {
	jsonOutput   bool
	ndjson       bool
	configFile   string
	expected     string
	expectedFile string
	timeout      time.Duration
	ciMode       bool
	minTotal     int
}

func newGradeCmd(a *app) *cobra.Command {
	var opts gradeOptions

	cmd := &cobra.Command{
		Use:   "grade [path]",
		Short: "Grade every source file in a directory",
		Long: "Compile, run and score every source file in the directory at path " +
			"(or the directory containing path, if it is a file).",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.jsonOutput && opts.ndjson {
				return fmt.Errorf("--json and --ndjson are mutually exclusive")
			}

			path := "."
			if len(args) > 0 {
				path = args[0]
			}
			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			dir, err := scanner.ResolveDir(absPath)
			if err != nil {
				// Discovery reports the bad path through the event stream.
				dir = absPath
			}

			cfg, err := loadGradeConfig(dir, cmd, opts)
			if err != nil {
				return err
			}

			svc, err := application.NewGradeService(scanner.New(), process.New(cfg.Timeout), cfg, a.logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var events domain.ReportSink
			switch {
			case opts.ndjson:
				events = sink.NewNDJSON(out)
			case opts.jsonOutput:
				events = sink.NewCollector()
			default:
				events = sink.NewText(out)
			}

			recorder := newRecordService()
			if err := recorder.Forget(dir); err != nil {
				a.logger.Debug("clearing last batch", zap.Error(err))
			}

			result, gradeErr := svc.Grade(cmd.Context(), absPath, events)
			if len(result.Reports) > 0 {
				// History is best effort; a read-only directory still gets graded.
				if _, err := recorder.Record(result); err != nil {
					a.logger.Warn("recording batch", zap.Error(err))
				}
			}

			switch {
			case opts.jsonOutput:
				if err := renderJSON(cmd, result); err != nil {
					return err
				}
			case opts.ndjson:
			default:
				if len(result.Reports) > 0 {
					fmt.Fprint(out, "\n"+tui.RenderBatch(result))
				}
			}

			if gradeErr != nil {
				return fmt.Errorf("grading failed: %w", gradeErr)
			}

			if opts.ciMode {
				return checkMinimum(result, cfg.MinTotal)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output the batch result as JSON")
	cmd.Flags().BoolVar(&opts.ndjson, "ndjson", false, "Stream grading events as newline-delimited JSON")
	cmd.Flags().StringVar(&opts.configFile, "config", "", "Config file (defaults to .autograder.yaml in the graded directory)")
	cmd.Flags().StringVar(&opts.expected, "expected", "", "Expected program output")
	cmd.Flags().StringVar(&opts.expectedFile, "expected-file", "", "File holding the expected program output")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Per-process time limit (0 waits indefinitely)")
	cmd.Flags().BoolVar(&opts.ciMode, "ci", false, "CI mode: exit 1 if any unit is ungraded or below --min")
	cmd.Flags().IntVar(&opts.minTotal, "min", 0, "Minimum total per unit for CI mode (overrides min_total)")

	return cmd
}

// loadGradeConfig layers flags over the config file over defaults.
func loadGradeConfig(dir string, cmd *cobra.Command, opts gradeOptions) (domain.GradeConfig, error) {
	loader := config.New()

	var (
		cfg domain.GradeConfig
		err error
	)
	if opts.configFile != "" {
		cfg, err = loader.LoadFile(opts.configFile)
	} else {
		cfg, err = loader.Load(dir)
	}
	if err != nil {
		return domain.GradeConfig{}, fmt.Errorf("loading config: %w", err)
	}

	if opts.expectedFile != "" {
		data, err := os.ReadFile(opts.expectedFile)
		if err != nil {
			return domain.GradeConfig{}, fmt.Errorf("reading --expected-file: %w", err)
		}
		cfg.ExpectedOutput = string(data)
	}
	if cmd.Flags().Changed("expected") {
		cfg.ExpectedOutput = opts.expected
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout = opts.timeout
	}
	if cmd.Flags().Changed("min") {
		cfg.MinTotal = opts.minTotal
	}

	if err := cfg.Validate(); err != nil {
		return domain.GradeConfig{}, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

func newRecordService() *application.RecordService {
	return application.NewRecordService(history.New(), cache.New(), gitinfo.New())
}

// batchJSON is the --json document: the batch plus its summary.
type batchJSON struct {
	*domain.BatchResult
	Summary domain.BatchSummary `json:"summary"`
}

func renderJSON(cmd *cobra.Command, result *domain.BatchResult) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(batchJSON{BatchResult: result, Summary: result.Summary()})
}

func checkMinimum(result *domain.BatchResult, minTotal int) error {
	var failed []string
	for _, r := range result.Reports {
		if r.Status != domain.StatusGraded || r.Total() < minTotal {
			failed = append(failed, r.Unit.File)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d units below minimum %d: %v", len(failed), len(result.Reports), minTotal, failed)
	}
	return nil
}
