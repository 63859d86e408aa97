package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2beens/liftbook/internal/auth"
	"github.com/2beens/liftbook/internal/config"
)

var (
	tokenUserID   int64
	tokenSubject  string
	tokenEmail    string
	tokenName     string
	tokenProvider string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an access/refresh token pair",
	Long: `Mint a token pair signed with LIFTBOOK_JWT_SECRET.

Meant for local development and smoke tests. A user id of 0 yields tokens for
an identity that has not signed up yet.

EXAMPLES:

  liftctl token --user-id 7 --sub 000123.abc --provider apple
  liftctl token --sub google-sub --email me@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Secrets.JWTSecret == "" {
			return errors.New("LIFTBOOK_JWT_SECRET is not set")
		}
		if tokenSubject == "" {
			return errors.New("--sub is required")
		}
		if tokenProvider != auth.ProviderGoogle && tokenProvider != auth.ProviderApple {
			return fmt.Errorf("unknown provider: %s", tokenProvider)
		}

		pair, err := newTokenService(cfg).IssuePair(auth.Identity{
			UserID:   tokenUserID,
			Subject:  tokenSubject,
			Name:     tokenName,
			Email:    tokenEmail,
			Provider: tokenProvider,
		})
		if err != nil {
			return fmt.Errorf("issue pair: %w", err)
		}

		out := cmd.OutOrStdout()
		label := color.New(color.Faint)
		fmt.Fprintf(out, "%s %s\n", label.Sprint("access: "), pair.AccessToken)
		fmt.Fprintf(out, "%s %s\n", label.Sprint("refresh:"), pair.RefreshToken)
		return nil
	},
}

func newTokenService(cfg *config.Config) *auth.TokenService {
	return auth.NewTokenService(
		cfg.Secrets.JWTSecret,
		cfg.AccessTokenTTL.Duration,
		cfg.RefreshTokenTTL.Duration,
		nil,
	)
}

func init() {
	tokenCmd.Flags().Int64Var(&tokenUserID, "user-id", 0, "liftbook user id (0 for a not yet registered identity)")
	tokenCmd.Flags().StringVar(&tokenSubject, "sub", "", "provider subject")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "email claim")
	tokenCmd.Flags().StringVar(&tokenName, "name", "", "name claim")
	tokenCmd.Flags().StringVar(&tokenProvider, "provider", auth.ProviderGoogle, "identity provider [google | apple]")
	rootCmd.AddCommand(tokenCmd)
}
