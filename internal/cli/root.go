// Package cli implements the mpesa command line tool
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dvcrn/mpesa-go"
	"github.com/dvcrn/mpesa-go/internal/app"
	"github.com/dvcrn/mpesa-go/internal/config"
	"github.com/dvcrn/mpesa-go/internal/credentials"
	"github.com/dvcrn/mpesa-go/internal/logger"
)

// globals holds the persistent flags of one invocation
type globals struct {
	configPath  string
	envFile     string
	credsSource string
	verbose     bool
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:   "mpesa",
		Short: "Client for the Safaricom Mpesa (Daraja) API",
		Long: `mpesa validates payloads, manages OAuth access tokens and calls the
Daraja API. Each operation reads a JSON payload from a file or stdin and prints
the status code and response body.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", "Path to a YAML or JSON config file (default $XDG_CONFIG_HOME/mpesa/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&g.envFile, "env", "", "Path to a .env file (default ./.env)")
	rootCmd.PersistentFlags().StringVar(&g.credsSource, "creds-source", string(app.SourceAuto), "Consumer credentials source: auto, env, fs or keychain")
	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Enable debug logging")

	for _, cmd := range operationCmds(g) {
		rootCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(batchCmd(g))
	rootCmd.AddCommand(templateCmd())
	rootCmd.AddCommand(passwordCmd())
	rootCmd.AddCommand(tokenCmd(g))
	rootCmd.AddCommand(initCmd(g))
	rootCmd.AddCommand(serveCmd(g))

	return rootCmd
}

// Execute runs the root command
func Execute(version string) error {
	rootCmd := NewRootCmd()
	rootCmd.Version = version
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func (g *globals) loadConfig() (*config.Config, error) {
	if g.envFile != "" {
		if err := os.Setenv(config.EnvFileVar, g.envFile); err != nil {
			return nil, err
		}
	}
	path := g.configPath
	if path == "" && credentials.FileExists(credentials.DefaultConfigPath()) {
		path = credentials.DefaultConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (g *globals) logger(cfg *config.Config) zerolog.Logger {
	level := cfg.LogLevel
	if g.verbose {
		level = "debug"
	}
	return logger.New(level)
}

func (g *globals) client() (*mpesa.Client, *config.Config, zerolog.Logger, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, nil, zerolog.Nop(), err
	}
	log := g.logger(cfg)

	source, err := app.ParseSource(g.credsSource)
	if err != nil {
		return nil, nil, log, err
	}
	c, err := app.NewClient(cfg, source, log)
	if err != nil {
		return nil, nil, log, err
	}
	return c, cfg, log, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
