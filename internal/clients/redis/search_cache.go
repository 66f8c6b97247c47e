package redis

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/heraldry-backend/internal/observability"
	"github.com/yungbote/heraldry-backend/internal/platform/envutil"
	"github.com/yungbote/heraldry-backend/internal/platform/logger"
)

type SearchCacheConfig struct {
	Addr      string        `yaml:"addr"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	Prefix    string        `yaml:"prefix"`
	TTL       time.Duration `yaml:"ttl"`
	OpTimeout time.Duration `yaml:"op_timeout"`
}

func DefaultSearchCacheConfig() SearchCacheConfig {
	return SearchCacheConfig{
		Prefix:    "heraldry:research",
		TTL:       5 * time.Minute,
		OpTimeout: 250 * time.Millisecond,
	}
}

func (cfg SearchCacheConfig) ApplyEnv() SearchCacheConfig {
	cfg.Addr = envutil.String("REDIS_ADDR", cfg.Addr)
	cfg.Password = envutil.String("REDIS_PASSWORD", cfg.Password)
	cfg.DB = envutil.Int("REDIS_DB", cfg.DB)
	cfg.Prefix = envutil.String("REDIS_SEARCH_PREFIX", cfg.Prefix)
	if secs := envutil.Int("SEARCH_CACHE_TTL_SECONDS", 0); secs > 0 {
		cfg.TTL = time.Duration(secs) * time.Second
	}
	return cfg
}

// SearchCache stores research results under a generation counter. Every
// catalog write bumps the generation, which orphans all earlier entries
// until their TTL expires. A nil *SearchCache is a valid disabled cache.
type SearchCache struct {
	rdb     *goredis.Client
	log     *logger.Logger
	metrics *observability.Metrics
	prefix  string
	ttl     time.Duration
	timeout time.Duration
}

// NewSearchCache connects to cfg.Addr. It returns nil, nil when no address is
// configured.
func NewSearchCache(cfg SearchCacheConfig, log *logger.Logger, metrics *observability.Metrics) (*SearchCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, nil
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return newSearchCache(rdb, cfg, log, metrics), nil
}

func newSearchCache(rdb *goredis.Client, cfg SearchCacheConfig, log *logger.Logger, metrics *observability.Metrics) *SearchCache {
	def := DefaultSearchCacheConfig()
	c := &SearchCache{
		rdb:     rdb,
		log:     log.With("client", "RedisSearchCache"),
		metrics: metrics,
		prefix:  cfg.Prefix,
		ttl:     cfg.TTL,
		timeout: cfg.OpTimeout,
	}
	if c.prefix == "" {
		c.prefix = def.Prefix
	}
	if c.ttl <= 0 {
		c.ttl = def.TTL
	}
	if c.timeout <= 0 {
		c.timeout = def.OpTimeout
	}
	return c
}

func (c *SearchCache) generationKey() string { return c.prefix + ":gen" }

func (c *SearchCache) entryKey(gen int64, key string) string {
	sum := sha1.Sum([]byte(key))
	return fmt.Sprintf("%s:%d:%s", c.prefix, gen, hex.EncodeToString(sum[:]))
}

func (c *SearchCache) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, c.timeout)
}

func (c *SearchCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, c.generationKey()).Int64()
	if err == goredis.Nil {
		return 0, nil
	}
	return gen, err
}

// Get never fails; errors count as misses. The returned generation must be
// handed to Put so that a result computed before a concurrent Invalidate is
// written under the orphaned generation. A negative generation means the
// counter could not be read and Put will skip the write.
func (c *SearchCache) Get(ctx context.Context, key string) ([]string, int64, bool) {
	if c == nil {
		return nil, -1, false
	}
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	gen, err := c.generation(ctx)
	if err != nil {
		c.log.Warn("search cache generation read failed", "error", err)
		c.metrics.IncSearchCache(false)
		return nil, -1, false
	}
	raw, err := c.rdb.Get(ctx, c.entryKey(gen, key)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("search cache read failed", "error", err)
		}
		c.metrics.IncSearchCache(false)
		return nil, gen, false
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		c.log.Warn("search cache entry corrupt", "error", err)
		c.metrics.IncSearchCache(false)
		return nil, gen, false
	}
	c.metrics.IncSearchCache(true)
	return ids, gen, true
}

// Put stores ids under gen, the generation observed by Get before the
// result was computed.
func (c *SearchCache) Put(ctx context.Context, gen int64, key string, ids []string) {
	if c == nil || gen < 0 {
		return
	}
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	raw, err := json.Marshal(ids)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, c.entryKey(gen, key), raw, c.ttl).Err(); err != nil {
		c.log.Warn("search cache write failed", "error", err)
	}
}

// Invalidate bumps the generation. A failure leaves stale entries readable
// until their TTL expires.
func (c *SearchCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	ctx, cancel := c.opContext(ctx)
	defer cancel()
	if err := c.rdb.Incr(ctx, c.generationKey()).Err(); err != nil {
		c.log.Error("search cache invalidate failed; stale results may be served until ttl", "error", err, "ttl", c.ttl.String())
	}
}

func (c *SearchCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
