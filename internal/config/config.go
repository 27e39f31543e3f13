package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Upload path selection. The direct path PUTs file bytes straight to the
// object store via a presigned URL; the backend path posts multipart form
// data for environments without object-store access.
const (
	UploadModeDirect  = "direct"
	UploadModeBackend = "backend"
)

type Config struct {
	APIURL     string `mapstructure:"API_URL"`
	SchoolID   string `mapstructure:"SCHOOL_ID"`
	UploadMode string `mapstructure:"UPLOAD_MODE"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("API_URL", "http://localhost:8000")
	viper.SetDefault("SCHOOL_ID", "demo_school")
	viper.SetDefault("UPLOAD_MODE", UploadModeDirect)
	viper.SetDefault("LOG_LEVEL", "INFO")

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
