package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/2beens/liftbook/internal/auth"
	"github.com/2beens/liftbook/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=users_test

type usersRepo interface {
	CreateUser(ctx context.Context, newUser NewUser) (*User, error)
	GetUser(ctx context.Context, id int64) (*User, error)
	LinkProvider(ctx context.Context, userID int64, provider, providerID, providerEmail string) error
	HasProvider(ctx context.Context, userID int64, provider string) (bool, error)
	DeleteUser(ctx context.Context, id int64) error
}

type googleExchanger interface {
	Exchange(ctx context.Context, code string) (*auth.Identity, error)
}

type appleRevoker interface {
	Revoke(ctx context.Context, refreshToken string) error
}

type tokenIssuer interface {
	IssuePair(identity auth.Identity) (*auth.TokenPair, error)
}

// Service is the account linking engine: signup, provider links and
// account deletion.
type Service struct {
	repo    usersRepo
	google  googleExchanger
	revoker appleRevoker
	tokens  tokenIssuer
}

func NewService(repo usersRepo, google googleExchanger, revoker appleRevoker, tokens tokenIssuer) *Service {
	return &Service{
		repo:    repo,
		google:  google,
		revoker: revoker,
		tokens:  tokens,
	}
}

type SignupResult struct {
	User   *User
	Tokens *auth.TokenPair
}

// Signup creates an account for a provider identity not bound to any user
// yet, and issues tokens carrying the new user id.
func (s *Service) Signup(ctx context.Context, identity auth.Identity, firstName, lastName, email string) (_ *SignupResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "usersService.signup")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if email == "" {
		email = identity.Email
	}
	if firstName == "" && lastName == "" {
		firstName, lastName = splitName(identity.Name)
	}

	user, err := s.repo.CreateUser(ctx, NewUser{
		FirstName:     firstName,
		LastName:      lastName,
		Email:         email,
		Provider:      identity.Provider,
		ProviderID:    identity.Subject,
		ProviderEmail: identity.Email,
	})
	if err != nil {
		return nil, err
	}

	identity.UserID = user.ID
	identity.Name = user.FullName()
	identity.Email = user.Email
	tokens, err := s.tokens.IssuePair(identity)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}

	log.Infof("user [%d] signed up with %s", user.ID, identity.Provider)
	return &SignupResult{User: user, Tokens: tokens}, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) LinkApple(ctx context.Context, userID int64, providerID, providerEmail string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "usersService.linkApple")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("user.id", userID))

	return s.repo.LinkProvider(ctx, userID, auth.ProviderApple, providerID, providerEmail)
}

// LinkGoogle exchanges the authorization code and links the resulting
// Google identity.
func (s *Service) LinkGoogle(ctx context.Context, userID int64, code string) (_ *Provider, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "usersService.linkGoogle")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("user.id", userID))

	identity, err := s.google.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := s.repo.LinkProvider(ctx, userID, auth.ProviderGoogle, identity.Subject, identity.Email); err != nil {
		return nil, err
	}

	provider := &Provider{
		Provider:   auth.ProviderGoogle,
		ProviderID: identity.Subject,
	}
	if identity.Email != "" {
		provider.ProviderEmail = &identity.Email
	}
	return provider, nil
}

// DeleteAccount removes the user and everything it owns. A linked Apple
// identity is revoked first, and the account stays if revocation fails.
func (s *Service) DeleteAccount(ctx context.Context, userID int64, appleRefreshToken string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "usersService.deleteAccount")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("user.id", userID))

	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return err
	}

	appleLinked, err := s.repo.HasProvider(ctx, userID, auth.ProviderApple)
	if err != nil {
		return err
	}
	if appleLinked {
		if appleRefreshToken == "" {
			return ErrAppleRefreshTokenRequired
		}
		if err := s.revoker.Revoke(ctx, appleRefreshToken); err != nil {
			log.Warnf("user [%d] apple revoke: %s", userID, err)
			return fmt.Errorf("%w: %s", ErrRevokeFailed, err)
		}
	}

	if err := s.repo.DeleteUser(ctx, userID); err != nil {
		return err
	}
	log.Infof("user [%d] deleted, apple revoked: %t", userID, appleLinked)
	return nil
}

func splitName(name string) (string, string) {
	first, last, _ := strings.Cut(strings.TrimSpace(name), " ")
	return first, strings.TrimSpace(last)
}
