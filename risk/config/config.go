package config

// Config holds the finite-difference parameters used by bump-and-reprice risk.
type Config struct {
	// BumpSizeBP is the half-width of the central difference, in basis points.
	BumpSizeBP float64
}

// DefaultConfig provides production-ready default values.
var DefaultConfig = Config{
	BumpSizeBP: 1.0,
}

// cfg is the active configuration. Defaults to DefaultConfig.
var cfg = DefaultConfig

// SetConfig replaces the active configuration.
func SetConfig(c Config) {
	cfg = c
}

// GetConfig returns the active configuration.
func GetConfig() Config {
	return cfg
}
