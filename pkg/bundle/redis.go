package bundle

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/localizr/pkg/content"
)

// RedisConfig configures the redis connection used by RedisSource.
type RedisConfig struct {
	URL            string        `env:"LOCALIZR_REDIS_URL" envDefault:"redis://localhost:6379/0"`
	Prefix         string        `env:"LOCALIZR_REDIS_PREFIX" envDefault:"localizr:"`
	RetryAttempts  int           `env:"LOCALIZR_REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"LOCALIZR_REDIS_RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"LOCALIZR_REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
}

// ConnectRedis connects to redis, retrying up to RetryAttempts times with
// RetryInterval between attempts.
func ConnectRedis(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseRedisConnString, err)
	}

	for range max(cfg.RetryAttempts, 1) {
		client := redis.NewClient(opt)
		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		_ = client.Close()

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrRedisNotReady, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}

	return nil, ErrRedisNotReady
}

// RedisHealthcheck returns a function that pings client.
func RedisHealthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if _, err := client.Ping(ctx).Result(); err != nil {
			return errors.Join(ErrRedisHealthcheckFailed, err)
		}
		return nil
	}
}

// RedisClient defines the redis commands used by RedisSource.
type RedisClient interface {
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisSource reads content documents stored as redis strings. Every key
// under the prefix that ends in a supported extension is parsed; the rest
// of the key after the prefix is namespaced like a relative file path, so
// "localizr:en-US:handler/index.properties" with prefix "localizr:en-US:"
// contributes keys under "handler.index".
type RedisSource struct {
	client  RedisClient
	prefix  string
	parsers []Parser
}

// NewRedisSource creates a source for keys starting with prefix.
func NewRedisSource(client RedisClient, prefix string, parsers ...Parser) *RedisSource {
	if len(parsers) == 0 {
		parsers = DefaultParsers()
	}
	return &RedisSource{client: client, prefix: prefix, parsers: parsers}
}

const redisScanCount = 100

// Load implements the Source interface
func (s *RedisSource) Load(ctx context.Context) (*content.Mapping, error) {
	var (
		keys   []string
		cursor uint64
	)
	for {
		batch, next, err := s.client.Scan(ctx, cursor, s.prefix+"*", redisScanCount).Result()
		if err != nil {
			return nil, classifyRedisError(err)
		}
		for _, k := range batch {
			if ParserForFile(k, s.parsers) != nil {
				keys = append(keys, k)
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: redis prefix %q", ErrRootNotFound, s.prefix)
	}

	// SCAN order is arbitrary and may repeat keys.
	slices.Sort(keys)
	keys = slices.Compact(keys)

	root := content.NewMapping()
	for _, k := range keys {
		data, err := s.client.Get(ctx, k).Bytes()
		if errors.Is(err, redis.Nil) {
			// Deleted between SCAN and GET.
			continue
		}
		if err != nil {
			return nil, classifyRedisError(err)
		}
		m, err := ParserForFile(k, s.parsers).Parse(ctx, data)
		if err != nil {
			return nil, errors.Join(ErrFailedToParseFile, fmt.Errorf("redis %s: %w", k, err))
		}
		root.Merge(nest(namespace(strings.TrimPrefix(k, s.prefix)), m))
	}
	return root, nil
}

func classifyRedisError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return errors.Join(ErrLoadingCancelled, err)
	}
	return errors.Join(ErrFailedToReadFile, err)
}
