package config

import "os"

type Config struct {
	HTTPAddr    string
	ServiceName string
	Env         string
	SeedStock   bool
}

// Load reads configuration from the environment, with defaults suitable for
// local runs. LOG_FILE is consumed directly by the logger.
func Load() Config {
	return Config{
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		ServiceName: getenv("SERVICE_NAME", "order-facade"),
		Env:         getenv("ENV", "dev"),
		SeedStock:   getenv("SEED_STOCK", "true") != "false",
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
