// Package config loads server configuration from the environment and
// pipeline configuration from YAML.
package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/apperrors"
	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/places"
)

// Server holds the prediction server's environment configuration.
type Server struct {
	Port          string
	DataDir       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	LogLevel      slog.Level
}

// LoadServer reads server configuration from the environment, loading a
// .env file first if one exists.
func LoadServer() Server {
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded environment from .env file")
	}

	return Server{
		Port:          getEnvOrDefault("PORT", "8080"),
		DataDir:       getEnvOrDefault("DATA_DIR", "./data"),
		RedisAddr:     getEnvOrDefault("REDIS_ADDR", ""),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:       getEnvIntOrDefault("REDIS_DB", 0),
		LogLevel:      parseLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Pipeline holds the data pipeline's YAML configuration.
type Pipeline struct {
	// RawPath is the long-format source extract.
	RawPath string `yaml:"raw_path"`
	// CleanPath is where the pivoted, filtered table is written.
	CleanPath string `yaml:"clean_path"`
	// FeaturesPath is where the featurized table is written.
	FeaturesPath string `yaml:"features_path"`
	// PlotPath is where the evaluation scatter plot is written.
	PlotPath string `yaml:"plot_path"`

	Response       string            `yaml:"response"`
	TestFraction   float64           `yaml:"test_fraction"`
	Seed           int64             `yaml:"seed"`
	FitIntercept   bool              `yaml:"fit_intercept"`
	InvalidDrop    []string          `yaml:"invalid_measures"`
	Proportions    []string          `yaml:"proportion_measures"`
	Features       []string          `yaml:"model_features"`
	StateRegions   map[string]string `yaml:"state_regions"`
	Reference      string            `yaml:"reference_region"`
	StrictRegions  bool              `yaml:"strict_regions"`
}

// DefaultPipeline returns the pipeline configuration with built-in domain
// defaults.
func DefaultPipeline() Pipeline {
	return Pipeline{
		RawPath:       "data/raw/places.csv",
		CleanPath:     "data/clean/places_wide.csv",
		FeaturesPath:  "data/clean/features.csv",
		PlotPath:      "data/artifacts/evaluation.svg",
		Response:      places.ResponseColumn,
		TestFraction:  0.25,
		Seed:          42,
		FitIntercept:  true,
		InvalidDrop:   places.InvalidMeasures,
		Proportions:   places.ProportionMeasures,
		Features:      places.ModelFeatures,
		StateRegions:  places.StateRegions,
		Reference:     places.ReferenceRegion,
		StrictRegions: false,
	}
}

// LoadPipeline reads pipeline configuration from a YAML file, applying the
// built-in defaults for any omitted field. An empty path returns the
// defaults unchanged.
func LoadPipeline(path string) (Pipeline, error) {
	cfg := DefaultPipeline()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Pipeline{}, apperrors.Connectivity("reading pipeline config", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Pipeline{}, apperrors.Schema("parsing pipeline config %s: %v", path, err)
	}

	if cfg.TestFraction < 0 || cfg.TestFraction >= 1 {
		return Pipeline{}, apperrors.Range("test_fraction %g outside [0,1)", cfg.TestFraction)
	}
	slog.Info("loaded pipeline config", "path", path)
	return cfg, nil
}
