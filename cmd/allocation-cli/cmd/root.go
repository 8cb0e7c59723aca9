package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"recruiter-allocation/internal/allocation/orchestrator"
	"recruiter-allocation/internal/app"
	"recruiter-allocation/internal/common/config"
	apperrors "recruiter-allocation/internal/common/errors"
	"recruiter-allocation/internal/common/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	appName = "allocation-cli"
)

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:           appName,
		Short:         "allocation-cli runs candidate allocation against the recruiter pool from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute executes the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is configs/config.yaml)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("pretty", "p", false, "indent JSON output")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("pretty", rootCmd.PersistentFlags().Lookup("pretty"))
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.LoadFromFile(cfgFile)
	}
	return config.Load()
}

func newLogger(cfg *config.Config) logger.Logger {
	level := cfg.Logging.Level
	if viper.GetBool("debug") {
		level = "debug"
	}
	// stdout carries the command result.
	return logger.NewStructured(level, cfg.Logging.Format, "stderr")
}

// withApp builds the allocation core, runs fn and prints its result as JSON.
// Interrupts cancel the context so a running allocation stops between
// candidates.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, core *app.App, log logger.Logger) (interface{}, error)) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	core, err := app.Build(ctx, cfg, nil, log)
	if err != nil {
		return err
	}
	defer core.Close()

	result, err := fn(ctx, core, log)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), result)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	if viper.GetBool("pretty") {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// printError writes allocation failures with their error code. Anything the
// allocation core does not recognise is printed as a plain message.
func printError(w io.Writer, err error) {
	var body interface{} = map[string]string{"message": err.Error()}
	var known *apperrors.StandardError
	if stdErr := orchestrator.Classify(err, "", "", ""); errors.As(err, &known) || stdErr.Code != apperrors.ErrCodeQueryExecutionFailed {
		if stdErr.Details == "" {
			stdErr.Details = err.Error()
		}
		body = stdErr
	}
	data, mErr := json.Marshal(map[string]interface{}{"error": body})
	if mErr != nil {
		fmt.Fprintln(w, err)
		return
	}
	fmt.Fprintln(w, string(data))
}
