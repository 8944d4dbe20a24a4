package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/fieldsurvey/internal/config"
	"github.com/abhisek/fieldsurvey/internal/logging"
	"github.com/abhisek/fieldsurvey/internal/questiontree"
	"github.com/abhisek/fieldsurvey/internal/store"
	"github.com/abhisek/fieldsurvey/internal/surveydef"
)

var rootCmd = &cobra.Command{
	Use:   "fieldsurvey",
	Short: "Terminal field survey",
	Long:  "fieldsurvey runs branching field surveys in the terminal and keeps the answers in a local SQLite database.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

// cfg is the resolved configuration, filled in before any command runs.
var (
	cfg       = config.Default()
	logCloser io.Closer
)

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides FIELDSURVEY_DB env var)")
	pf.String("config", "", "Path to config file (overrides FIELDSURVEY_CONFIG env var)")
	pf.String("template", "", "Path to a YAML or JSON survey template (overrides FIELDSURVEY_TEMPLATE env var)")
	pf.String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.Flags().String("resume", "", "Resume the session with this id")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(submissionsCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup resolves the configuration and starts logging.
func setup(cmd *cobra.Command) error {
	c, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	cfg = c

	if cfg.Logging.Filename == "" {
		if dataHome, err := store.DataHome(); err == nil {
			cfg.Logging.Filename = filepath.Join(dataHome, "fieldsurvey.log")
		}
	}
	if cfg.Logging.Filename != "" {
		if err := store.EnsureDir(cfg.Logging.Filename); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
	}
	logCloser = logging.Init(cfg.Logging)
	return nil
}

// resolveConfig builds the configuration with flags taking priority over
// environment variables, which take priority over the config file.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return config.Config{}, err
		}
		path = p
	}

	c, err := config.Load(path)
	if err != nil {
		return c, err
	}
	c.ApplyEnv()

	if p, _ := cmd.Flags().GetString("db"); p != "" {
		c.Database.Path = p
	}
	if p, _ := cmd.Flags().GetString("template"); p != "" {
		c.Survey.TemplatePath = p
	}
	if l, _ := cmd.Flags().GetString("log-level"); l != "" {
		c.Logging.Level = l
	}
	return c, nil
}

// resolveDBPath returns the configured database path, falling back to the
// default XDG path.
func resolveDBPath() (string, error) {
	if p := cfg.Database.Path; p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// loadSurvey reads the configured template, or the built-in survey, and
// stamps its ids. Lint problems are logged but do not stop the survey.
func loadSurvey() (*questiontree.Schema, error) {
	var (
		sv  *questiontree.Survey
		err error
	)
	if p := cfg.Survey.TemplatePath; p != "" {
		sv, err = surveydef.Load(p)
	} else {
		sv, err = surveydef.Default()
	}
	if err != nil {
		return nil, err
	}

	if err := questiontree.Validate(sv); err != nil {
		slog.Warn("survey template has problems", "title", sv.Title, "error", err)
	}
	return questiontree.Assign(sv)
}
