package users

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound              = errors.New("user not found")
	ErrEmailTaken                = errors.New("email already registered")
	ErrAlreadyLinked             = errors.New("provider already linked")
	ErrProviderIdentityTaken     = errors.New("provider identity linked to another account")
	ErrAppleRefreshTokenRequired = errors.New("apple refresh token required")
	ErrRevokeFailed              = errors.New("failed to revoke")
)

type User struct {
	ID        int64      `json:"id"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Email     string     `json:"email"`
	CreatedAt time.Time  `json:"createdAt"`
	Providers []Provider `json:"providers"`
}

// Provider is one identity-provider link of a user.
type Provider struct {
	Provider      string    `json:"provider"`
	ProviderID    string    `json:"providerId"`
	ProviderEmail *string   `json:"providerEmail,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

type NewUser struct {
	FirstName     string
	LastName      string
	Email         string
	Provider      string
	ProviderID    string
	ProviderEmail string
}

func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
