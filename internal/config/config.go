package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	defaultSettingsPath = "settings.json"
	defaultDBPath       = "./reports.db"
	defaultOutputDir    = "."
	defaultLogoPath     = "logo.jpeg"
	defaultAddr         = "127.0.0.1:8080"
)

// Keys understood by Load. Each maps to the upper-case environment variable
// of the same name and may be bound to a command-line flag.
const (
	KeyAppEnv       = "app_env"
	KeySettingsPath = "settings_path"
	KeyDBPath       = "db_path"
	KeyOutputDir    = "output_dir"
	KeyLogoPath     = "logo_path"
	KeyChromePath   = "chrome_path"
	KeyAddr         = "addr"
)

// Config holds runtime configuration sourced from the environment.
type Config struct {
	AppEnv       string
	SettingsPath string
	DBPath       string
	OutputDir    string
	// LogoPath is empty when the report is rendered without a logo.
	LogoPath   string
	ChromePath string
	Addr       string
}

func (c Config) IsDev() bool {
	return c.AppEnv == EnvDevelopment
}

// Load resolves configuration through v. Variables from envFile are added to the
// process environment first without overriding anything already set; a missing
// envFile is not an error.
func Load(v *viper.Viper, envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v.SetDefault(KeyAppEnv, EnvDevelopment)
	v.SetDefault(KeySettingsPath, defaultSettingsPath)
	v.SetDefault(KeyDBPath, defaultDBPath)
	v.SetDefault(KeyOutputDir, defaultOutputDir)
	v.SetDefault(KeyLogoPath, defaultLogoPath)
	v.SetDefault(KeyChromePath, "")
	v.SetDefault(KeyAddr, defaultAddr)
	// LOGO_PATH= disables the logo rather than falling back to the default.
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	cfg := Config{
		AppEnv:       strings.ToLower(strings.TrimSpace(v.GetString(KeyAppEnv))),
		SettingsPath: v.GetString(KeySettingsPath),
		DBPath:       v.GetString(KeyDBPath),
		OutputDir:    v.GetString(KeyOutputDir),
		LogoPath:     strings.TrimSpace(v.GetString(KeyLogoPath)),
		ChromePath:   v.GetString(KeyChromePath),
		Addr:         v.GetString(KeyAddr),
	}

	if cfg.AppEnv != EnvDevelopment && cfg.AppEnv != EnvProduction {
		return Config{}, fmt.Errorf("unknown APP_ENV %q", cfg.AppEnv)
	}
	for key, value := range map[string]string{
		KeySettingsPath: cfg.SettingsPath,
		KeyDBPath:       cfg.DBPath,
		KeyOutputDir:    cfg.OutputDir,
		KeyAddr:         cfg.Addr,
	} {
		if strings.TrimSpace(value) == "" {
			return Config{}, fmt.Errorf("%s must not be empty", strings.ToUpper(key))
		}
	}

	return cfg, nil
}
