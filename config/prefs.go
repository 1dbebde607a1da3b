package config

import "strings"

// Preference store backends selectable via PREFS_BACKEND.
const (
	PrefsBackendFile   = "file"
	PrefsBackendRedis  = "redis"
	PrefsBackendMemory = "memory"
)

// PrefsConfig contains configuration for the local preference store.
type PrefsConfig struct {
	// Backend selects the preference store implementation:
	// "file" (durable JSON file), "redis", or "memory" (process-local,
	// useful for tests and dry runs).
	Backend string `env:"PREFS_BACKEND" envDefault:"file"`

	// Namespace groups all preference keys under one name, mirroring the
	// app's "user_prefs" preferences file.
	Namespace string `env:"PREFS_NAMESPACE" envDefault:"user_prefs"`

	// FilePath is the JSON file used by the file backend.
	FilePath string `env:"PREFS_FILE" envDefault:"matchify_prefs.json"`

	// Redis connection settings for the redis backend.
	RedisAddr     string `env:"PREFS_REDIS_ADDR"     envDefault:"localhost:6379"`
	RedisPassword string `env:"PREFS_REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"PREFS_REDIS_DB"       envDefault:"0"`
}

// Sanitize applies guardrails to preference store configuration values.
func (p *PrefsConfig) Sanitize() {
	switch strings.ToLower(strings.TrimSpace(p.Backend)) {
	case PrefsBackendFile, "":
		p.Backend = PrefsBackendFile
	case PrefsBackendRedis:
		p.Backend = PrefsBackendRedis
	case PrefsBackendMemory:
		p.Backend = PrefsBackendMemory
	default:
		// Unknown backend falls back to the durable default rather than
		// failing startup.
		p.Backend = PrefsBackendFile
	}

	p.Namespace = strings.TrimSpace(p.Namespace)
	if p.Namespace == "" {
		p.Namespace = "user_prefs"
	}

	p.FilePath = strings.TrimSpace(p.FilePath)
	if p.FilePath == "" {
		p.FilePath = "matchify_prefs.json"
	}

	if p.RedisDB < 0 {
		p.RedisDB = 0
	}
}
