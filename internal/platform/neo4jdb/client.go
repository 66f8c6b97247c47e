package neo4jdb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/heraldry-backend/internal/platform/envutil"
	"github.com/yungbote/heraldry-backend/internal/platform/logger"
)

type Config struct {
	URI         string `yaml:"uri"`
	User        string `yaml:"user"`
	Password    string `yaml:"password"`
	Database    string `yaml:"database"`
	TimeoutSec  int    `yaml:"timeout_seconds"`
	MaxPoolSize int    `yaml:"max_pool_size"`
}

func DefaultConfig() Config {
	return Config{
		User:        "neo4j",
		TimeoutSec:  10,
		MaxPoolSize: 50,
	}
}

// ApplyEnv overrides cfg with any NEO4J_* variables that are set.
func (cfg Config) ApplyEnv() Config {
	cfg.URI = envutil.String("NEO4J_URI", cfg.URI)
	cfg.User = envutil.String("NEO4J_USER", cfg.User)
	cfg.Password = envutil.String("NEO4J_PASSWORD", cfg.Password)
	cfg.Database = envutil.String("NEO4J_DATABASE", cfg.Database)
	cfg.TimeoutSec = envutil.Int("NEO4J_TIMEOUT_SECONDS", cfg.TimeoutSec)
	cfg.MaxPoolSize = envutil.Int("NEO4J_MAX_POOL_SIZE", cfg.MaxPoolSize)
	return cfg
}

func (cfg Config) timeout() time.Duration {
	if cfg.TimeoutSec <= 0 {
		return 10 * time.Second
	}
	return time.Duration(cfg.TimeoutSec) * time.Second
}

type Client struct {
	Driver   neo4j.DriverWithContext
	Database string
	timeout  time.Duration
	log      *logger.Logger
}

func New(cfg Config, log *logger.Logger) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("neo4jdb: logger required")
	}
	uri := strings.TrimSpace(cfg.URI)
	if uri == "" {
		return nil, fmt.Errorf("neo4jdb: NEO4J_URI required")
	}
	user := strings.TrimSpace(cfg.User)
	if user == "" {
		user = "neo4j"
	}
	maxPool := cfg.MaxPoolSize
	if maxPool <= 0 {
		maxPool = 50
	}
	timeout := cfg.timeout()

	auth := neo4j.BasicAuth(user, cfg.Password, "")
	driver, err := neo4j.NewDriverWithContext(uri, auth, func(c *neo4j.Config) {
		c.MaxConnectionPoolSize = maxPool
		c.SocketConnectTimeout = timeout
		// Failed transactions surface to the caller; nothing is retried.
		c.MaxTransactionRetryTime = 0
	})
	if err != nil {
		return nil, fmt.Errorf("neo4jdb: init driver: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("neo4jdb: verify connectivity: %w", err)
	}

	return &Client{
		Driver:   driver,
		Database: strings.TrimSpace(cfg.Database),
		timeout:  timeout,
		log:      log.With("client", "Neo4jDB"),
	}, nil
}

func (c *Client) Session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return c.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   mode,
		DatabaseName: c.Database,
	})
}

func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.Driver == nil {
		return fmt.Errorf("neo4jdb: client closed")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.Driver.VerifyConnectivity(ctx)
}

func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.Driver == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := c.Driver.Close(ctx)
	c.Driver = nil
	return err
}
