package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/heraldry-backend/internal/clients/redis"
	"github.com/yungbote/heraldry-backend/internal/platform/envutil"
	"github.com/yungbote/heraldry-backend/internal/platform/neo4jdb"
)

const (
	GraphBackendNeo4j  = "neo4j"
	GraphBackendMemory = "memory"
)

type Config struct {
	Server    ServerConfig            `yaml:"server"`
	Graph     GraphConfig             `yaml:"graph"`
	Cache     redis.SearchCacheConfig `yaml:"search_cache"`
	Telemetry TelemetryConfig         `yaml:"telemetry"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	LogMode         string        `yaml:"log_mode"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type GraphConfig struct {
	// Backend is "neo4j" or "memory".
	Backend      string         `yaml:"backend"`
	EnsureSchema bool           `yaml:"ensure_schema"`
	Neo4j        neo4jdb.Config `yaml:"neo4j"`
	Breaker      BreakerConfig  `yaml:"breaker"`
}

type BreakerConfig struct {
	Enabled          bool          `yaml:"enabled"`
	MaxRequests      uint32        `yaml:"max_requests"`
	Interval         time.Duration `yaml:"interval"`
	Timeout          time.Duration `yaml:"timeout"`
	FailureThreshold float64       `yaml:"failure_threshold"`
	MinRequests      uint32        `yaml:"min_requests"`
}

type TelemetryConfig struct {
	ServiceName string `yaml:"service_name"`
	Environment string `yaml:"environment"`
	Metrics     bool   `yaml:"metrics"`
	Tracing     bool   `yaml:"tracing"`
}

func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:            "8080",
			LogMode:         "development",
			ShutdownTimeout: 15 * time.Second,
		},
		Graph: GraphConfig{
			Backend:      GraphBackendNeo4j,
			EnsureSchema: true,
			Neo4j:        neo4jdb.DefaultConfig(),
			Breaker: BreakerConfig{
				Enabled:          true,
				MaxRequests:      5,
				Interval:         30 * time.Second,
				Timeout:          60 * time.Second,
				FailureThreshold: 0.8,
				MinRequests:      5,
			},
		},
		Cache: redis.DefaultSearchCacheConfig(),
		Telemetry: TelemetryConfig{
			ServiceName: "heraldry",
			Metrics:     true,
		},
	}
}

// LoadConfig layers defaults, the optional YAML file at path and the
// environment, in that order, then validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	path = strings.TrimSpace(path)
	if path == "" {
		path = envutil.String("CONFIG_FILE", "")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}
	cfg = cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) ApplyEnv() Config {
	c.Server.Port = envutil.String("PORT", c.Server.Port)
	c.Server.LogMode = envutil.String("LOG_MODE", c.Server.LogMode)

	c.Graph.Backend = strings.ToLower(envutil.String("GRAPH_STORE", c.Graph.Backend))
	c.Graph.EnsureSchema = envutil.Bool("GRAPH_ENSURE_SCHEMA", c.Graph.EnsureSchema)
	c.Graph.Neo4j = c.Graph.Neo4j.ApplyEnv()

	b := &c.Graph.Breaker
	b.Enabled = envutil.Bool("GRAPH_BREAKER_ENABLED", b.Enabled)
	b.MaxRequests = uint32(envutil.Int("GRAPH_BREAKER_MAX_REQUESTS", int(b.MaxRequests)))
	b.MinRequests = uint32(envutil.Int("GRAPH_BREAKER_MIN_REQUESTS", int(b.MinRequests)))
	b.FailureThreshold = envutil.Float("GRAPH_BREAKER_FAILURE_THRESHOLD", b.FailureThreshold)
	if secs := envutil.Int("GRAPH_BREAKER_TIMEOUT_SECONDS", 0); secs > 0 {
		b.Timeout = time.Duration(secs) * time.Second
	}
	if secs := envutil.Int("GRAPH_BREAKER_INTERVAL_SECONDS", 0); secs > 0 {
		b.Interval = time.Duration(secs) * time.Second
	}

	c.Cache = c.Cache.ApplyEnv()

	c.Telemetry.ServiceName = envutil.String("OTEL_SERVICE_NAME", c.Telemetry.ServiceName)
	c.Telemetry.Environment = envutil.String("APP_ENV", c.Telemetry.Environment)
	c.Telemetry.Metrics = envutil.Bool("METRICS_ENABLED", c.Telemetry.Metrics)
	c.Telemetry.Tracing = envutil.Bool("OTEL_ENABLED", c.Telemetry.Tracing)
	return c
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Server.Port) == "" {
		return fmt.Errorf("server.port is required")
	}
	switch c.Graph.Backend {
	case GraphBackendNeo4j:
		if strings.TrimSpace(c.Graph.Neo4j.URI) == "" {
			return fmt.Errorf("graph.neo4j.uri (NEO4J_URI) is required for the neo4j backend")
		}
	case GraphBackendMemory:
	default:
		return fmt.Errorf("graph.backend must be %q or %q, got %q", GraphBackendNeo4j, GraphBackendMemory, c.Graph.Backend)
	}
	if b := c.Graph.Breaker; b.Enabled && (b.FailureThreshold <= 0 || b.FailureThreshold > 1) {
		return fmt.Errorf("graph.breaker.failure_threshold must be in (0, 1]")
	}
	return nil
}
