//go:build integration_test || all_tests

package test

import (
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"

	"github.com/2beens/liftbook/internal/auth"
	"github.com/2beens/liftbook/internal/users"
)

func (s *IntegrationTestSuite) TestSignupAndProfile() {
	identity := s.newIdentity()
	token, err := s.tokens.IssueAccessToken(identity)
	s.Require().NoError(err)

	status, body := s.do(http.MethodPost, "/api/users", token, users.SignupRequest{FirstName: "Jane", LastName: "Doe"})
	s.Require().Equal(http.StatusCreated, status, string(body))
	signup := &users.SignupResponse{}
	s.decode(body, signup)
	s.Equal("Jane", signup.User.FirstName)
	s.Equal(identity.Email, signup.User.Email)
	s.NotEmpty(signup.AccessToken)
	s.NotEmpty(signup.RefreshToken)

	// the same provider identity cannot sign up twice
	status, _ = s.do(http.MethodPost, "/api/users", token, users.SignupRequest{Email: "other@example.com"})
	s.Equal(http.StatusConflict, status)

	status, body = s.do(http.MethodGet, fmt.Sprintf("/api/users/%d", signup.User.ID), signup.AccessToken, nil)
	s.Require().Equal(http.StatusOK, status, string(body))
	profile := &users.User{}
	s.decode(body, profile)
	s.Require().Len(profile.Providers, 1)
	s.Equal(auth.ProviderGoogle, profile.Providers[0].Provider)
	s.Equal(identity.Subject, profile.Providers[0].ProviderID)

	other := s.signup()
	status, _ = s.do(http.MethodGet, fmt.Sprintf("/api/users/%d", other.User.ID), signup.AccessToken, nil)
	s.Equal(http.StatusForbidden, status)

	status, _ = s.do(http.MethodGet, fmt.Sprintf("/api/users/%d", signup.User.ID), "", nil)
	s.Equal(http.StatusUnauthorized, status)
}

func (s *IntegrationTestSuite) TestRefreshRotation() {
	signup := s.signup()

	status, body := s.do(http.MethodPost, "/api/auth/refresh", "", auth.RefreshRequest{RefreshToken: signup.RefreshToken})
	s.Require().Equal(http.StatusOK, status, string(body))
	pair := &auth.TokenPair{}
	s.decode(body, pair)
	s.NotEmpty(pair.AccessToken)
	s.NotEqual(signup.RefreshToken, pair.RefreshToken)

	status, _ = s.do(http.MethodGet, fmt.Sprintf("/api/users/%d", signup.User.ID), pair.AccessToken, nil)
	s.Equal(http.StatusOK, status)

	// and the other way round
	status, _ = s.do(http.MethodGet, fmt.Sprintf("/api/users/%d", signup.User.ID), pair.RefreshToken, nil)
	s.Equal(http.StatusUnauthorized, status)

	// an access token is not a refresh token
	status, _ = s.do(http.MethodPost, "/api/auth/refresh", "", auth.RefreshRequest{RefreshToken: signup.AccessToken})
	s.Equal(http.StatusBadRequest, status)

	status, _ = s.do(http.MethodPost, "/api/auth/refresh", "", auth.RefreshRequest{RefreshToken: "garbage"})
	s.Equal(http.StatusUnauthorized, status)
}

func (s *IntegrationTestSuite) TestLinkAppleAndDelete() {
	signup := s.signup()
	userPath := fmt.Sprintf("/api/users/%d", signup.User.ID)
	linkPath := fmt.Sprintf("/api/users/link/apple/%d", signup.User.ID)

	status, body := s.do(http.MethodPost, linkPath, signup.AccessToken, users.LinkAppleRequest{ProviderID: "001234.apple.sub"})
	s.Require().Equal(http.StatusOK, status, string(body))

	status, _ = s.do(http.MethodPost, linkPath, signup.AccessToken, users.LinkAppleRequest{ProviderID: "009999.apple.sub"})
	s.Equal(http.StatusBadRequest, status)

	// apple-linked accounts need a refresh token to revoke
	status, _ = s.do(http.MethodDelete, userPath, signup.AccessToken, users.DeleteAccountRequest{})
	s.Equal(http.StatusBadRequest, status)
	status, _ = s.do(http.MethodGet, userPath, signup.AccessToken, nil)
	s.Equal(http.StatusOK, status)

	// the identity is taken for every other user
	other := s.signup()
	status, _ = s.do(http.MethodPost, fmt.Sprintf("/api/users/link/apple/%d", other.User.ID), other.AccessToken,
		users.LinkAppleRequest{ProviderID: "001234.apple.sub"})
	s.Equal(http.StatusConflict, status)

	otherPath := fmt.Sprintf("/api/users/%d", other.User.ID)
	status, body = s.do(http.MethodDelete, otherPath, other.AccessToken, nil)
	s.Require().Equal(http.StatusOK, status, string(body))
	status, _ = s.do(http.MethodGet, otherPath, other.AccessToken, nil)
	s.Equal(http.StatusNotFound, status)
}

func (s *IntegrationTestSuite) TestGoogleAuthorizeCallbackRelay() {
	for _, foreign := range []string{
		"https://evil.example/cb",
		serverEndpoint + ".evil.example/steal",
		serverEndpoint + "@evil.example/steal",
	} {
		status, _ := s.do(http.MethodGet, "/api/auth/authorize?redirect_uri="+url.QueryEscape(foreign), "", nil)
		s.Equal(http.StatusBadRequest, status, foreign)
	}

	resp, err := s.httpClient.Get(serverEndpoint + "/api/auth/authorize?platform=ios&redirect_uri=" +
		url.QueryEscape(testAppScheme+"://auth"))
	s.Require().NoError(err)
	_ = resp.Body.Close()
	s.Require().Equal(http.StatusFound, resp.StatusCode)

	consent, err := url.Parse(resp.Header.Get("Location"))
	s.Require().NoError(err)
	state := consent.Query().Get("state")
	s.Require().NotEmpty(state)

	callback := fmt.Sprintf("%s/api/auth/callback/google?code=auth-code&state=%s", serverEndpoint, url.QueryEscape(state))
	resp, err = s.httpClient.Get(callback)
	s.Require().NoError(err)
	_ = resp.Body.Close()
	s.Require().Equal(http.StatusFound, resp.StatusCode)

	relayed, err := url.Parse(resp.Header.Get("Location"))
	s.Require().NoError(err)
	s.Equal(testAppScheme, relayed.Scheme)
	s.Equal("auth-code", relayed.Query().Get("code"))
	s.Equal(state, relayed.Query().Get("state"))

	// a state is good for one callback only
	resp, err = s.httpClient.Get(callback)
	s.Require().NoError(err)
	_ = resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestGoogleCallbackStateConsumedOnceUnderRace() {
	resp, err := s.httpClient.Get(serverEndpoint + "/api/auth/authorize?redirect_uri=" + url.QueryEscape(testAppScheme+"://auth"))
	s.Require().NoError(err)
	_ = resp.Body.Close()
	s.Require().Equal(http.StatusFound, resp.StatusCode)

	consent, err := url.Parse(resp.Header.Get("Location"))
	s.Require().NoError(err)
	callback := fmt.Sprintf("%s/api/auth/callback/google?code=auth-code&state=%s", serverEndpoint, url.QueryEscape(consent.Query().Get("state")))

	var relayed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := s.httpClient.Get(callback)
			if err != nil {
				return
			}
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusFound {
				relayed.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), relayed.Load())
}
