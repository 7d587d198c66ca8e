// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/retr0h/sqlaudit/internal/cli"
	"github.com/retr0h/sqlaudit/internal/config"
	"github.com/retr0h/sqlaudit/internal/telemetry"
)

const (
	// skipConfigAnnotation marks commands that run without a config file.
	skipConfigAnnotation = "sqlaudit/skip-config"
	// explicitConfigAnnotation marks commands that refuse the default
	// config file path and exit 2 unless one is named.
	explicitConfigAnnotation = "sqlaudit/explicit-config"
	// configFileEnv names the config file in place of --config-file.
	configFileEnv = "SQLAUDIT_CONFIGFILE"
)

var (
	appConfig  config.Config
	appFs      = afero.NewOsFs()
	logger     = slog.New(slog.NewTextHandler(os.Stdout, nil))
	jsonOutput bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "sqlaudit",
	Short: "A tamper-evident, signed audit trail in SQL.",
	Long: `A tamper-evident audit trail stored in a SQL table.

Every entry is signed with an RSA key over a canonical rendering of its
fields, so modified or deleted rows are detected when the trail is read.
`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		if _, ok := cmd.Annotations[explicitConfigAnnotation]; ok &&
			!configFileGiven(cmd, os.LookupEnv) {
			cli.Exit(logger, 2, "no config file given, use --config-file", nil)
		}
		if _, ok := cmd.Annotations[skipConfigAnnotation]; !ok {
			initConfig()
		}
		initLogger()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable or disable debug mode")
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Enable JSON output")

	rootCmd.PersistentFlags().
		StringP("config-file", "f", "/etc/sqlaudit/sqlaudit.yaml", "Path to config file")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("configFile", rootCmd.PersistentFlags().Lookup("config-file"))
}

// configFileGiven reports whether the config file was named on the
// command line or through the environment rather than left at its default.
func configFileGiven(
	cmd *cobra.Command,
	lookupEnv func(string) (string, bool),
) bool {
	if cmd.Flags().Changed("config-file") {
		return true
	}
	v, ok := lookupEnv(configFileEnv)
	return ok && v != ""
}

func initConfig() {
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetConfigType("yaml")
	viper.AutomaticEnv()
	viper.SetEnvPrefix("sqlaudit")

	configFile := viper.GetString("configFile")
	if configFile == "" {
		cli.Exit(logger, 2, "no config file given, use --config-file", nil)
	}
	viper.SetConfigFile(configFile)

	viper.SetDefault("audit.sql.high_watermark", 10000)
	viper.SetDefault("audit.sql.low_watermark", 5000)

	if err := viper.ReadInConfig(); err != nil {
		cli.LogFatal(logger, "failed to read config", err, "configFile", viper.ConfigFileUsed())
	}

	if err := viper.Unmarshal(&appConfig); err != nil {
		cli.LogFatal(logger, "failed to unmarshal config", err, "configFile", viper.ConfigFileUsed())
	}

	// Auto-enable tracing in debug mode so trace_id appears in log lines.
	// No exporter is set, so spans only feed log correlation.
	if appConfig.Debug && !appConfig.Telemetry.Tracing.Enabled {
		appConfig.Telemetry.Tracing.Enabled = true
	}

	err := config.Validate(&appConfig)
	if err != nil {
		cli.LogFatal(logger, "validation failed", err, "configFile", viper.ConfigFileUsed())
	}
}

func initLogger() {
	logger = telemetry.NewLogger(os.Stderr, telemetry.LoggerOptions{
		Debug:   viper.GetBool("debug"),
		JSON:    jsonOutput,
		NoColor: !term.IsTerminal(int(os.Stdout.Fd())),
	})
}
