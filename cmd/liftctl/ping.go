package main

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/fatih/color"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/2beens/liftbook/internal/db"
)

var pingTimeout time.Duration

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that postgres and redis are reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), pingTimeout)
		defer cancel()

		out := cmd.OutOrStdout()
		report := func(name string, err error) error {
			if err != nil {
				fmt.Fprintf(out, "%s %s: %s\n", color.RedString("✗"), name, err)
				return fmt.Errorf("%s: %w", name, err)
			}
			fmt.Fprintf(out, "%s %s\n", color.GreenString("✓"), name)
			return nil
		}

		return multierr.Combine(
			report("postgres", pingPostgres(ctx)),
			report("redis", pingRedis(ctx)),
		)
	},
}

func pingPostgres(ctx context.Context) error {
	pool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DatabaseURL: cfg.Secrets.DatabaseURL,
		DBHost:      cfg.PostgresHost,
		DBPort:      cfg.PostgresPort,
		DBName:      cfg.PostgresDBName,
	})
	if err != nil {
		return err
	}
	defer pool.Close()
	return pool.Ping(ctx)
}

func pingRedis(ctx context.Context) error {
	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: cfg.Secrets.RedisPassword,
	})
	defer rdb.Close()
	return rdb.Ping(ctx).Err()
}

func init() {
	pingCmd.Flags().DurationVar(&pingTimeout, "timeout", 5*time.Second, "overall timeout")
	rootCmd.AddCommand(pingCmd)
}
