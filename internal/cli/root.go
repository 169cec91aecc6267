// Package cli implements the realitycheck command: offline claim extraction
// and scoring of a resume file.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kirillkom/reality-check/internal/bootstrap"
	"github.com/kirillkom/reality-check/internal/config"
	"github.com/kirillkom/reality-check/internal/core/ports"
	"github.com/kirillkom/reality-check/internal/observability/logging"
)

const app = "realitycheck"

var version = "dev"

// PipelineFactory builds the pipeline a command runs against.
type PipelineFactory func(cfg config.Config, logger *slog.Logger) ports.ClaimPipeline

func defaultFactory(cfg config.Config, logger *slog.Logger) ports.ClaimPipeline {
	return bootstrap.NewPipeline(cfg, logger, nil)
}

// Execute runs the root command with the production pipeline.
func Execute() error {
	return NewRootCommand(defaultFactory).Execute()
}

type runtimeOptions struct {
	v       *viper.Viper
	factory PipelineFactory
	cfgFile string
}

func NewRootCommand(factory PipelineFactory) *cobra.Command {
	opts := &runtimeOptions{v: viper.New(), factory: factory}

	rootCmd := &cobra.Command{
		Use:   app,
		Short: "Check resume claims against GitHub, Twitter and LinkedIn",
		Long: `realitycheck extracts skills, projects and contacts from a PDF or DOCX
resume, looks for evidence of them on public profiles and prints a 0-100
reality score with per-claim proof.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return opts.initConfig()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.cfgFile, "config", "", "config file (default: ./realitycheck.yaml if present)")
	flags.String("log-level", "warn", "log level: debug, info, warn, error")
	flags.Int("source-timeout", 0, "per-source timeout in seconds")
	flags.String("github-token", "", "GitHub API token")
	flags.Bool("mock-on-not-found", true, "answer unknown GitHub users with demo data")
	flags.Bool("infer-soft-skills", true, "infer soft skills from achievement statements")
	flags.Bool("linkedin-real-lookup", false, "try real LinkedIn lookups before the demo profile")
	for _, name := range []string{"log-level", "source-timeout", "github-token", "mock-on-not-found", "infer-soft-skills", "linkedin-real-lookup"} {
		_ = opts.v.BindPFlag(name, flags.Lookup(name))
	}

	rootCmd.AddCommand(
		newExtractCommand(opts),
		newScoreCommand(opts),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", app, version)
			},
		},
	)
	return rootCmd
}

// initConfig reads an optional config file and REALITYCHECK_* variables.
func (o *runtimeOptions) initConfig() error {
	v := o.v
	v.SetEnvPrefix("REALITYCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if o.cfgFile != "" {
		v.SetConfigFile(o.cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(app)
	}
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound || o.cfgFile != "" {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// serviceConfig layers flags, env and config file over the service defaults.
func (o *runtimeOptions) serviceConfig() config.Config {
	cfg := config.Load()
	v := o.v
	cfg.LogLevel = v.GetString("log-level")
	if t := v.GetInt("source-timeout"); t > 0 {
		cfg.SourceTimeoutSeconds = t
	}
	if token := v.GetString("github-token"); token != "" {
		cfg.GitHubToken = token
	}
	cfg.GitHubMockOnNotFound = v.GetBool("mock-on-not-found")
	cfg.InferSoftSkills = v.GetBool("infer-soft-skills")
	cfg.LinkedInRealLookup = v.GetBool("linkedin-real-lookup")
	return cfg
}

func (o *runtimeOptions) pipeline(cmd *cobra.Command) ports.ClaimPipeline {
	cfg := o.serviceConfig()
	logger := logging.NewJSONLoggerTo(cmd.ErrOrStderr(), app, cfg.LogLevel)
	return o.factory(cfg, logger)
}

func readDocument(path string) ([]byte, string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	return content, ext, nil
}
