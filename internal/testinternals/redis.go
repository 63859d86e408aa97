//go:build integration_test || all_tests

package testinternals

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

// Redis is either an already running redis (LIFTBOOK_TEST_REDIS_ADDR) or a
// throwaway container.
type Redis struct {
	Client     *redis.Client
	Addr       string
	dockerPool *dockertest.Pool
	resource   *dockertest.Resource
}

func StartRedis(ctx context.Context) (*Redis, error) {
	if addr := os.Getenv("LIFTBOOK_TEST_REDIS_ADDR"); addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("LIFTBOOK_TEST_REDIS_PASS"),
			DB:       0, // use default DB
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("ping redis [%s]: %w", addr, err)
		}
		return &Redis{Client: rdb, Addr: addr}, nil
	}

	dockerPool, err := dockertest.NewPool("")
	if err != nil {
		return nil, fmt.Errorf("could not create new dockertest pool: %w", err)
	}
	if err := dockerPool.Client.Ping(); err != nil {
		return nil, fmt.Errorf("could not ping dockertest pool: %w", err)
	}

	resource, err := dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7-alpine",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return nil, fmt.Errorf("dockerpool run redis: %w", err)
	}
	_ = resource.Expire(300)

	r := &Redis{
		Addr:       "localhost:" + resource.GetPort("6379/tcp"),
		dockerPool: dockerPool,
		resource:   resource,
	}
	r.Client = redis.NewClient(&redis.Options{Addr: r.Addr})

	dockerPool.MaxWait = 30 * time.Second
	if err := dockerPool.Retry(func() error {
		return r.Client.Ping(ctx).Err()
	}); err != nil {
		r.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	log.Printf("redis test container ready on port %s", resource.GetPort("6379/tcp"))
	return r, nil
}

func (r *Redis) Close() {
	if r.Client != nil {
		_ = r.Client.Close()
	}
	if r.resource != nil {
		if err := r.dockerPool.Purge(r.resource); err != nil {
			log.Printf("purge redis container: %s", err)
		}
	}
}
