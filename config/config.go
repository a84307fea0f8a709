// Package config reads process settings from the environment. Load returns
// the typed settings; New returns the raw environment for the server knobs
// read with GetString, GetInt and GetSeconds.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// New returns the current environment as a map.
func New() map[string]string {
	environ := os.Environ()
	envAsMap := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		key, value, _ := strings.Cut(entry, "=")
		envAsMap[key] = value
	}
	return envAsMap
}

func GetString(config map[string]string, key string, defaultValue string) string {
	if val, ok := config[key]; ok && val != "" {
		return val
	}
	return defaultValue
}

func GetInt(config map[string]string, key string, defaultValue int) int {
	s, ok := config[key]
	if !ok {
		return defaultValue
	}
	asInt, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return asInt
}

// GetSeconds reads a whole number of seconds.
func GetSeconds(config map[string]string, key string, defaultValue time.Duration) time.Duration {
	n := GetInt(config, key, -1)
	if n < 0 {
		return defaultValue
	}
	return time.Duration(n) * time.Second
}
