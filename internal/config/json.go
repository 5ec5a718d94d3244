package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gradebook/internal/flagx"
)

// JsonConfig is the on-disk shape of the config file. Pointer fields
// distinguish "absent" from a zero value, so a file may set only some keys.
type JsonConfig struct {
	Store            *string `json:"store"`
	UsersFile        *string `json:"users_file"`
	DatabaseDSN      *string `json:"database_dsn"`
	HashDriver       *string `json:"hash_driver"`
	MaxLoginAttempts *int    `json:"max_login_attempts"`
	RehashOnLogin    *bool   `json:"rehash_on_login"`
	LogLevel         *string `json:"log_level"`
}

// parseJson overlays values from the file named by -c/-config onto config.
// Nothing happens when no file is given. An unreadable file or invalid
// JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setIf(&config.Store, c.Store)
	setIf(&config.UsersFile, c.UsersFile)
	setIf(&config.DatabaseDSN, c.DatabaseDSN)
	setIf(&config.HashDriver, c.HashDriver)
	setIf(&config.MaxLoginAttempts, c.MaxLoginAttempts)
	setIf(&config.RehashOnLogin, c.RehashOnLogin)
	setIf(&config.LogLevel, c.LogLevel)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
