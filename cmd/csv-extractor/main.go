// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the csv-extractor CLI. The root command
// reads an email CSV and a mobile-number CSV and writes the extracted column
// of each to a timestamped text file.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/carlmjohnson/exitcode"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/csv-extractor/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	toolName  = "csv-extractor"
	envPrefix = "CSV_EXTRACTOR"
)

// exitUsage is returned for invalid invocations and configuration.
const exitUsage = 2

// app carries the state shared by every command of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
	level  *slog.LevelVar
	v      *viper.Viper

	// now is the clock handed to the pipeline.
	now func() time.Time

	// ran is set once a command's RunE starts. Errors returned before that
	// come from flag or config validation.
	ran bool
}

func newApp(stdout, stderr io.Writer) *app {
	level := new(slog.LevelVar)
	return &app{
		stdout: stdout,
		stderr: stderr,
		level:  level,
		logger: slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})),
		v:      viper.New(),
		now:    time.Now,
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, newApp(os.Stdout, os.Stderr), os.Args[1:])
	stop()
	os.Exit(code)
}

// execute runs the command tree and converts its outcome to an exit code.
// Panics are recovered here, logged with the tool name and version, and
// reported as failures.
func execute(ctx context.Context, a *app, args []string) (code int) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("unexpected failure",
				"tool", toolName, "version", version, "panic", r, "stack", string(debug.Stack()))
			code = 1
		}
	}()

	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	if !a.ran {
		err = exitcode.Set(err, exitUsage)
	}
	a.logger.Error("run failed", "tool", toolName, "version", version, "err", err)
	return exitcode.Get(err)
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   toolName + " --email-csv FILE --mob-csv FILE",
		Short: "Extract the contact column from email and mobile-number CSV files",
		Long: `csv-extractor reads two CSV exports that share the header
name,gender,home_address,mob_or_email and writes the mob_or_email column of
each to a text file, one value per line:

  ./Extracted/EMails_<nanoseconds>.txt
  ./Extracted/MobileNumbers_<nanoseconds>.txt

Rows that cannot be decoded are skipped and counted, or abort the run with
--on-malformed=fail.`,
		Args:              cobra.NoArgs,
		SilenceErrors:     true,
		PersistentPreRunE: a.initConfig,
		RunE:              a.runExtract,
	}

	cmd.PersistentFlags().String("config", "", "config file (default: ./csv-extractor.yaml or ~/.config/csv-extractor/csv-extractor.yaml)")
	cmd.PersistentFlags().String("log-level", "info", "diagnostic log level: debug, info, warn, error")

	cmd.Flags().StringP("email-csv", "e", "", "path to the CSV file that contains emails")
	cmd.Flags().StringP("mob-csv", "m", "", "path to the CSV file that contains mobile numbers")
	cmd.Flags().StringP("output-dir", "o", types.DefaultOutputDir, "directory for extracted files")
	cmd.Flags().String("column", types.DefaultColumn, "CSV column to extract")
	cmd.Flags().String("on-malformed", string(types.PolicySkip), "malformed-row policy: skip or fail")
	cmd.Flags().String("line-ending", string(types.LineEndingAuto), "output line ending: auto, lf, or crlf")
	cmd.Flags().String("ledger", "", "SQLite run ledger path (empty disables the ledger)")
	_ = cmd.MarkFlagFilename("email-csv", "csv")
	_ = cmd.MarkFlagFilename("mob-csv", "csv")
	_ = cmd.MarkFlagRequired("email-csv")
	_ = cmd.MarkFlagRequired("mob-csv")

	cmd.AddCommand(a.versionCmd())
	cmd.AddCommand(a.historyCmd())
	return cmd
}

// initConfig layers .env, CSV_EXTRACTOR_* environment variables, and the
// config file under the command-line flags.
func (a *app) initConfig(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	cfgFile, _ := cmd.Flags().GetString("config")
	if cfgFile != "" {
		a.v.SetConfigFile(cfgFile)
	} else {
		a.v.SetConfigName(toolName)
		a.v.SetConfigType("yaml")
		a.v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			a.v.AddConfigPath(filepath.Join(home, ".config", toolName))
		}
	}

	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	} else {
		fmt.Fprintln(a.stderr, "Using config file:", a.v.ConfigFileUsed())
	}

	if err := a.v.BindPFlag("log_level", cmd.Flags().Lookup("log-level")); err != nil {
		return err
	}
	return a.setLogLevel(a.v.GetString("log_level"))
}

func (a *app) setLogLevel(s string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", s, err)
	}
	a.level.Set(lvl)
	return nil
}

// bindFlags binds config keys to the flags of the running command. Binding
// happens per command because root and history share the ledger key.
func (a *app) bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for key, flag := range keys {
		if err := a.v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("binding flag %s: %w", flag, err)
		}
	}
	return nil
}
