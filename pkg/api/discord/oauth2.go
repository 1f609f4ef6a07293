package discord

import (
	"context"
	"net/http"

	"github.com/questx-lab/discord-oauth2/config"
	"github.com/questx-lab/discord-oauth2/pkg/api"
	"github.com/questx-lab/discord-oauth2/pkg/errorx"
	"github.com/questx-lab/discord-oauth2/pkg/jwt"
	"golang.org/x/oauth2"
)

var oauth2Endpoint = oauth2.Endpoint{
	AuthURL:  "https://discord.com/oauth2/authorize",
	TokenURL: apiURL + "/oauth2/token",
}

// defaultState is used when the caller passes no state of its own. Callers
// that care about callback integrity should pass a StateEngine token instead.
const defaultState = "questx"

// AuthCodeURL builds the link a user follows to authorize this application.
// Scopes are space-joined in the resulting query string.
func (e *Endpoint) AuthCodeURL(state string, scopes ...string) string {
	if state == "" {
		state = defaultState
	}

	cfg := oauth2.Config{
		ClientID:    e.clientID,
		RedirectURL: e.redirectURI,
		Endpoint:    oauth2Endpoint,
		Scopes:      scopes,
	}

	return cfg.AuthCodeURL(state)
}

// ExchangeCode trades an authorization code for a session. Only the token
// fields are reshaped; nothing else of the upstream response is kept.
func (e *Endpoint) ExchangeCode(ctx context.Context, code string) (*Session, error) {
	if code == "" {
		return nil, errorx.New(errorx.Validation, "Require a non-empty authorization code")
	}

	body, err := e.token(ctx, api.Parameter{
		"grant_type":   "authorization_code",
		"code":         code,
		"redirect_uri": e.redirectURI,
	})
	if err != nil {
		return nil, err
	}

	session := Session{}
	if err := decode(ctx, body, &session); err != nil {
		return nil, err
	}

	return &session, nil
}

// RefreshSession replaces the session's tokens using its refresh token. The
// caller decides when; no staleness tracking happens here.
func (e *Endpoint) RefreshSession(ctx context.Context, session *Session) error {
	if session == nil || session.RefreshToken == "" {
		return errorx.New(errorx.PreconditionFailed, "Require a refresh token")
	}

	body, err := e.token(ctx, api.Parameter{
		"grant_type":    "refresh_token",
		"refresh_token": session.RefreshToken,
	})
	if err != nil {
		return err
	}

	refreshed := Session{}
	if err := decode(ctx, body, &refreshed); err != nil {
		return err
	}

	*session = refreshed
	return nil
}

// Revoke invalidates the session upstream and zeroes it locally. Both tokens
// must be present; otherwise this fails before any call goes out.
func (e *Endpoint) Revoke(ctx context.Context, session *Session) error {
	if session == nil || session.AccessToken == "" || session.RefreshToken == "" {
		return errorx.New(errorx.PreconditionFailed, "Require both access and refresh tokens to revoke")
	}

	client := e.apiGenerator.New(unversionedAPIURL, "/oauth2/token/revoke").
		Header("User-Agent", userAgent).
		Body(api.Parameter{
			"token":           session.AccessToken,
			"token_type_hint": "access_token",
			"client_id":       e.clientID,
			"client_secret":   e.clientSecret,
		})

	if _, err := e.execute(ctx, http.MethodPost, client); err != nil {
		return err
	}

	session.AccessToken = ""
	session.RefreshToken = ""
	return nil
}

// token calls the exchange endpoint. It authorizes with the client secret in
// the form body, not with a session token.
func (e *Endpoint) token(ctx context.Context, form api.Parameter) (any, error) {
	form["client_id"] = e.clientID
	form["client_secret"] = e.clientSecret

	client := e.apiGenerator.New(apiURL, "/oauth2/token").
		Header("User-Agent", userAgent).
		Body(form)

	return e.execute(ctx, http.MethodPost, client)
}

// StateEngine signs a payload into the OAuth2 state parameter and verifies it
// when the user comes back, so the callback can trust its own round trip.
type StateEngine[T any] struct {
	engine   *jwt.Engine[T]
	verifier *jwt.Verifier[T]
}

func NewStateEngine[T any](cfg config.AuthConfigs) *StateEngine[T] {
	return &StateEngine[T]{
		engine:   jwt.NewEngine[T](cfg.StateSecret, cfg.StateExpiration),
		verifier: jwt.NewVerifier[T](cfg.StateSecret),
	}
}

func (s *StateEngine[T]) Generate(obj T) (string, error) {
	return s.engine.Generate("oauth2-state", obj)
}

func (s *StateEngine[T]) Verify(state string) (T, error) {
	obj, err := s.verifier.Verify(state)
	if err != nil {
		return obj, errorx.New(errorx.Validation, "Invalid state token")
	}

	return obj, nil
}
