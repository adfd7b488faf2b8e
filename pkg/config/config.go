// pkg/config/config.go
package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Default restaurant set serving both lunch and dinner every day. Every other
// site is single-shift and classified as lunch regardless of time.
var defaultAlwaysOpenRestaurants = []string{
	"ACIARIA SUL",
	"COQUERIA",
	"MANUTENÇÃO CENTRAL",
	"MINI CONTÍNUO",
	"MINI CONVERTEDOR",
	"MINI LTQ",
	"SUNCOKE",
	"CENTRAL",
}

// ClusterConfig holds the knobs of the anomaly-refinement clustering pass.
type ClusterConfig struct {
	K             int   // number of clusters
	Seed          int64 // RNG seed, fixed for reproducible assignments
	Restarts      int   // re-initializations, lowest inertia wins
	MaxIterations int   // Lloyd iteration cap per restart
	MinRows       int   // below this the refinement pass is skipped
}

// Config represents the application configuration.
type Config struct {
	// Shift classification
	AlwaysOpenRestaurants []string
	// Restaurants whose name contains this marker are satellite sites and are
	// excluded from the clustering population.
	SatelliteMarker string

	// Ingestion
	WorkbookPattern string // filename substring that identifies the input workbook

	// Clustering
	Cluster ClusterConfig

	// Pipeline settings
	ChunkSize      int
	WorkerPoolSize int // 0 means use runtime.NumCPU()

	// Optional PostgreSQL output sink
	Postgres *PostgresConfig
}

// LoadConfig loads configuration from the environment, reading a .env file
// first when one is present.
func LoadConfig() (*Config, error) {
	// A missing .env is the normal case, not an error.
	_ = godotenv.Load()

	cfg := &Config{
		AlwaysOpenRestaurants: getEnvAsStringSlice("AUDIT_ALWAYS_OPEN_RESTAURANTS", defaultAlwaysOpenRestaurants),
		SatelliteMarker:       getEnv("AUDIT_SATELLITE_MARKER", "MINI"),
		WorkbookPattern:       getEnv("AUDIT_WORKBOOK_PATTERN", "apuracao_geral_arcelormittal"),
		Cluster: ClusterConfig{
			K:             getEnvAsInt("AUDIT_CLUSTER_K", 5),
			Seed:          int64(getEnvAsInt("AUDIT_CLUSTER_SEED", 42)),
			Restarts:      getEnvAsInt("AUDIT_CLUSTER_RESTARTS", 10),
			MaxIterations: getEnvAsInt("AUDIT_CLUSTER_MAX_ITERATIONS", 100),
			MinRows:       getEnvAsInt("AUDIT_CLUSTER_MIN_ROWS", 10),
		},
		ChunkSize:      getEnvAsInt("AUDIT_CHUNK_SIZE", 5000),
		WorkerPoolSize: getEnvAsInt("AUDIT_WORKER_POOL_SIZE", 0),
	}

	// The database sink is optional; only wire it when credentials are set.
	if os.Getenv("POSTGRES_USER") != "" {
		pg, err := LoadPostgresConfig()
		if err != nil {
			return nil, err
		}
		cfg.Postgres = pg
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures all required configuration is present and valid.
func (c *Config) Validate() error {
	if len(c.AlwaysOpenRestaurants) == 0 {
		return errors.New("always-open restaurant set cannot be empty")
	}

	if c.Cluster.K < 2 {
		return errors.New("cluster count must be at least 2")
	}

	if c.Cluster.Restarts <= 0 {
		return errors.New("cluster restarts must be positive")
	}

	if c.Cluster.MaxIterations <= 0 {
		return errors.New("cluster iteration cap must be positive")
	}

	if c.Cluster.MinRows < c.Cluster.K {
		return errors.New("minimum clustering rows cannot be below the cluster count")
	}

	if c.ChunkSize <= 0 {
		return errors.New("chunk size must be positive")
	}

	if c.WorkerPoolSize < 0 {
		return errors.New("worker pool size cannot be negative")
	}

	return nil
}

// AlwaysOpenSet returns the always-open restaurants as a lookup set.
func (c *Config) AlwaysOpenSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.AlwaysOpenRestaurants))
	for _, name := range c.AlwaysOpenRestaurants {
		set[name] = struct{}{}
	}
	return set
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
