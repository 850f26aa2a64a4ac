package config

import (
	"time"

	"github.com/daybook-app/daybook/utils"
)

type ServerConfig struct {
	Port            string
	MaxUploadBytes  int64
	ShutdownTimeout time.Duration
	Debug           bool
	LogDir          string
}

func LoadServerConfig() ServerConfig {
	return ServerConfig{
		Port:            utils.GetEnvAsString("PORT", "8080"),
		MaxUploadBytes:  utils.GetEnvAsInt64("MAX_UPLOAD_BYTES", 32<<20),
		ShutdownTimeout: utils.GetEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		Debug:           utils.GetEnvAsBool("DEBUG", false),
		LogDir:          utils.GetEnvAsString("LOG_DIR", "logs"),
	}
}
