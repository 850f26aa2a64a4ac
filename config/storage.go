package config

import (
	"github.com/daybook-app/daybook/utils"
)

type StorageConfig struct {
	Backend    string // file | sqlite | mongo
	DataFile   string // journal document path for the file backend
	SQLitePath string
	UploadDir  string
}

func LoadStorageConfig() StorageConfig {
	return StorageConfig{
		Backend:    utils.GetEnvAsString("STORE_BACKEND", "file"),
		DataFile:   utils.GetEnvAsString("DATA_FILE", "data/journal.json"),
		SQLitePath: utils.GetEnvAsString("SQLITE_PATH", "data/daybook.db"),
		UploadDir:  utils.GetEnvAsString("UPLOAD_DIR", "uploads"),
	}
}
