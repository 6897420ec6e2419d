package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/openkraft/autograder/internal/adapters/outbound/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	version = "dev"
	commit  = "none"
)

const envLogLevel = "AUTOGRADER_LOG_LEVEL"

// app carries what every subcommand needs once flags are parsed.
type app struct {
	logLevel  string
	logFormat string
	logger    *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	cmd := &cobra.Command{
		Use:   "autograder",
		Short: "Batch-compile, run and score student submissions",
		Long: "autograder compiles and runs every source file in a directory, then scores each " +
			"one against a five-criterion rubric, streaming progress as it goes.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A .env next to the invocation is optional.
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("loading .env: %w", err)
			}

			level := a.logLevel
			if !cmd.Flags().Changed("log-level") {
				if v := os.Getenv(envLogLevel); v != "" {
					level = v
				}
			}
			logger, err := logging.New(logging.Config{
				Level:  level,
				Format: a.logFormat,
				Output: cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", logging.DefaultLevel, "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "console", "Log format (console, json)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newGradeCmd(a))
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newReportCmd())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newMCPCmd(a))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

// Execute runs the CLI. SIGINT and SIGTERM cancel a running batch between
// units.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}
