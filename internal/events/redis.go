package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tasks-api/internal/config"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Channel      string
}

func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr:         "localhost:6379",
		PoolSize:     10,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		Channel:      "tasks.events",
	}
}

func RedisConfigFromConfig(cfg *config.Config) *RedisConfig {
	return &RedisConfig{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		Channel:      cfg.Events.Channel,
	}
}

// RedisPublisher sends task events as JSON messages on a pub/sub channel.
type RedisPublisher struct {
	client  *redis.Client
	channel string
	breaker *CircuitBreaker
	metrics *PublisherMetrics
}

func NewRedisPublisher(config *RedisConfig, breakerConfig *CircuitBreakerConfig) *RedisPublisher {
	if config == nil {
		config = DefaultRedisConfig()
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})

	return &RedisPublisher{
		client:  rdb,
		channel: config.Channel,
		breaker: NewCircuitBreaker(breakerConfig),
		metrics: NewPublisherMetrics(),
	}
}

func (p *RedisPublisher) Publish(ctx context.Context, event TaskEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	err = p.breaker.Execute(func() error {
		return p.client.Publish(ctx, p.channel, data).Err()
	})
	switch {
	case err == ErrCircuitBreakerOpen:
		p.metrics.RecordRejected()
		return err
	case err != nil:
		p.metrics.RecordFailed()
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}

	p.metrics.RecordPublished()
	return nil
}

func (p *RedisPublisher) Channel() string {
	return p.channel
}

func (p *RedisPublisher) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return p.client.Ping(ctx).Err()
}

func (p *RedisPublisher) Stats() map[string]interface{} {
	poolStats := p.client.PoolStats()

	return map[string]interface{}{
		"enabled":      true,
		"channel":      p.channel,
		"events":       p.metrics.GetStats(),
		"failure_rate": p.metrics.FailureRate(),
		"breaker":      p.breaker.GetStats(),
		"pool_hits":    poolStats.Hits,
		"pool_misses":  poolStats.Misses,
		"pool_total":   poolStats.TotalConns,
		"pool_idle":    poolStats.IdleConns,
	}
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
