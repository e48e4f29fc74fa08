package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
}

type APIConfig struct {
	Environment        string   `mapstructure:"environment"`
	Port               string   `mapstructure:"port"`
	BaseURL            string   `mapstructure:"base_url"`
	SiteURL            string   `mapstructure:"site_url"`
	JWTSigningKey      string   `mapstructure:"jwt_signing_key"`
	BarJWTSigningKey   string   `mapstructure:"bar_jwt_signing_key"`
	AdminPassword      string   `mapstructure:"admin_password"`
	AllowedCORSDomains []string `mapstructure:"allowed_cors_domains"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"db_name"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// Load reads the YAML config at path. Values can be overridden from the
// environment, e.g. API_JWT_SIGNING_KEY or POSTGRES_PASSWORD. A handful of
// flat legacy names (PORT, JWT_SECRET, BAR_JWT_SECRET, ADMIN_PASSWORD,
// CORS_ORIGIN, SITE_URL) are honored as well since deployments predate the
// nested scheme.
func Load(path string) (*AppConfig, error) {
	viper.SetConfigFile(path)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("viper.ReadInConfig -> %w", err)
	}

	viper.WatchConfig()
	viper.OnConfigChange(func(e fsnotify.Event) {
		zap.L().Info("config file changed", zap.String("file", e.Name))
	})

	var conf AppConfig
	if err := viper.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("viper.Unmarshal -> %w", err)
	}

	applyLegacyEnv(conf.API)

	return &conf, nil
}

func applyLegacyEnv(api *APIConfig) {
	if v := viper.GetString("PORT"); v != "" {
		api.Port = v
	}
	if v := viper.GetString("JWT_SECRET"); v != "" {
		api.JWTSigningKey = v
	}
	if v := viper.GetString("BAR_JWT_SECRET"); v != "" {
		api.BarJWTSigningKey = v
	}
	if v := viper.GetString("ADMIN_PASSWORD"); v != "" {
		api.AdminPassword = v
	}
	if v := viper.GetString("SITE_URL"); v != "" {
		api.SiteURL = v
	}
	if v := viper.GetString("CORS_ORIGIN"); v != "" {
		api.AllowedCORSDomains = strings.Split(v, ",")
	}
}
