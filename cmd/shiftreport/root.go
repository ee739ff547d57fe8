package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Simplici0/shiftreport/internal/config"
	"github.com/Simplici0/shiftreport/internal/db"
	"github.com/Simplici0/shiftreport/internal/history"
	"github.com/Simplici0/shiftreport/internal/logger"
	"github.com/Simplici0/shiftreport/internal/migrations"
	"github.com/Simplici0/shiftreport/internal/report"
	"github.com/Simplici0/shiftreport/internal/settings"
)

var (
	envFile string
	v       = viper.New()
	cfg     config.Config
	appLog  = zap.NewNop()

	rootCmd = &cobra.Command{
		Use:           "shiftreport",
		Short:         "Shift production contribution reports",
		Long:          `shiftreport computes revenue, labor and contribution per production line for a shift and renders the result as a PDF report.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = appLog.Sync()
		},
	}
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	pf.String("settings", "", "settings file (env SETTINGS_PATH)")
	pf.String("db", "", "report history database (env DB_PATH)")
	pf.String("output-dir", "", "directory reports are written to (env OUTPUT_DIR)")
	pf.String("logo", "", "logo image for the report header (env LOGO_PATH)")

	_ = v.BindPFlag(config.KeySettingsPath, pf.Lookup("settings"))
	_ = v.BindPFlag(config.KeyDBPath, pf.Lookup("db"))
	_ = v.BindPFlag(config.KeyOutputDir, pf.Lookup("output-dir"))
	_ = v.BindPFlag(config.KeyLogoPath, pf.Lookup("logo"))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(historyCmd)
}

func initApp() error {
	var err error
	if cfg, err = config.Load(v, envFile); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if appLog, err = logger.New(cfg.AppEnv); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	appLog.Debug("configuration loaded",
		zap.String("env", cfg.AppEnv),
		zap.String("settings", cfg.SettingsPath),
		zap.String("db", cfg.DBPath),
		zap.String("output_dir", cfg.OutputDir),
	)
	return nil
}

func openStore() (*settings.Store, error) {
	store, err := settings.Open(cfg.SettingsPath, appLog)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// openArchive opens the history database and brings its schema up to date.
// The caller closes the returned closer.
func openArchive() (*history.Archive, func() error, error) {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	if err := migrations.Up(database); err != nil {
		database.Close()
		return nil, nil, err
	}
	return history.NewArchive(database), database.Close, nil
}

func newGenerator() (*report.Generator, error) {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	chromePath := cfg.ChromePath
	if chromePath == "" {
		chromePath = report.DetectChromePath()
	}
	if chromePath == "" {
		appLog.Warn("no Chrome or Chromium found; set CHROME_PATH before generating reports")
	}
	return report.NewGenerator(report.ChromePrinter{ExecPath: chromePath}, cfg.OutputDir, cfg.LogoPath, appLog), nil
}
