package discord

import (
	"context"
	"net/http"
	"time"

	"github.com/puzpuzpuz/xsync"
	"github.com/questx-lab/discord-oauth2/config"
	"github.com/questx-lab/discord-oauth2/pkg/api"
	"github.com/questx-lab/discord-oauth2/pkg/errorx"
	"github.com/questx-lab/discord-oauth2/pkg/xcontext"
)

const apiURL = "https://discord.com/api/v10"

// The revoke route lives on the unversioned API base.
const unversionedAPIURL = "https://discord.com/api"

const userAgent = "DiscordBot (https://questx.com, 1.0)"

const (
	joinGuildResource = "join_guild"
)

type Endpoint struct {
	clientID     string
	clientSecret string
	redirectURI  string
	botToken     string

	apiGenerator      api.Generator
	rateLimitResource *xsync.MapOf[string, *xsync.MapOf[string, time.Time]]
}

func New(cfg config.DiscordConfigs) *Endpoint {
	return &Endpoint{
		clientID:          cfg.ClientID,
		clientSecret:      cfg.ClientSecret,
		redirectURI:       cfg.RedirectURI,
		botToken:          cfg.BotToken,
		apiGenerator:      api.NewGenerator(),
		rateLimitResource: xsync.NewMapOf[*xsync.MapOf[string, time.Time]](),
	}
}

func (e *Endpoint) GetMe(ctx context.Context, session *Session) (User, error) {
	body, err := e.getAuthorized(ctx, session, "/users/@me")
	if err != nil {
		return User{}, err
	}

	user := User{}
	if err := decode(ctx, body, &user); err != nil {
		return User{}, err
	}

	return user, nil
}

// GetUsername reshapes GetMe into the displayable handle. Accounts migrated to
// unique usernames report discriminator "0" and drop the suffix.
func (e *Endpoint) GetUsername(ctx context.Context, session *Session) (string, error) {
	user, err := e.GetMe(ctx, session)
	if err != nil {
		return "", err
	}

	if user.Discriminator == "" || user.Discriminator == "0" {
		return user.Username, nil
	}

	return user.Username + "#" + user.Discriminator, nil
}

func (e *Endpoint) GetConnections(ctx context.Context, session *Session) ([]Connection, error) {
	body, err := e.getAuthorized(ctx, session, "/users/@me/connections")
	if err != nil {
		return nil, err
	}

	var connections []Connection
	if err := decode(ctx, body, &connections); err != nil {
		return nil, err
	}

	return connections, nil
}

func (e *Endpoint) GetGuilds(ctx context.Context, session *Session) ([]Guild, error) {
	body, err := e.getAuthorized(ctx, session, "/users/@me/guilds")
	if err != nil {
		return nil, err
	}

	var guilds []Guild
	if err := decode(ctx, body, &guilds); err != nil {
		return nil, err
	}

	return guilds, nil
}

func (e *Endpoint) GetGuildMember(ctx context.Context, session *Session, guildID Snowflake) (Member, error) {
	body, err := e.getAuthorized(ctx, session, "/users/@me/guilds/%s/member", guildID)
	if err != nil {
		return Member{}, err
	}

	member := Member{}
	if err := decode(ctx, body, &member); err != nil {
		return Member{}, err
	}

	return member, nil
}

func (e *Endpoint) GetCurrentApplication(ctx context.Context) (Application, error) {
	if e.botToken == "" {
		return Application{}, errorx.New(errorx.PreconditionFailed, "Require a bot token")
	}

	client := e.apiGenerator.New(apiURL, "/oauth2/applications/@me").
		Header("User-Agent", userAgent)

	body, err := e.execute(ctx, http.MethodGet, client, api.OAuth2("Bot", e.botToken))
	if err != nil {
		return Application{}, err
	}

	app := Application{}
	if err := decode(ctx, body, &app); err != nil {
		return Application{}, err
	}

	return app, nil
}

// JoinGuild adds the session's user to a guild. It authorizes as the bot, but
// still goes through the shared classifier like every other operation.
func (e *Endpoint) JoinGuild(ctx context.Context, session *Session, guildID, userID Snowflake) error {
	if e.botToken == "" {
		return errorx.New(errorx.PreconditionFailed, "Require a bot token to join guilds")
	}

	if session == nil || session.AccessToken == "" {
		return errorx.New(errorx.PreconditionFailed, "Require an access token")
	}

	if err := e.checkLimitingResource(joinGuildResource, guildID.String()); err != nil {
		return err
	}

	client := e.apiGenerator.New(apiURL, "/guilds/%s/members/%s", guildID, userID).
		Header("User-Agent", userAgent).
		Body(api.JSON{"access_token": session.AccessToken})

	resp, err := e.send(ctx, http.MethodPut, client, api.OAuth2("Bot", e.botToken))
	if err != nil {
		return err
	}

	if err := e.rememberTooManyRequest(resp, joinGuildResource, guildID.String()); err != nil {
		return err
	}

	_, err = classifyResponse(resp)
	return err
}

// getAuthorized issues a bearer-authorized GET on behalf of the session user.
func (e *Endpoint) getAuthorized(ctx context.Context, session *Session, path string, args ...any) (any, error) {
	if session == nil || session.AccessToken == "" {
		return nil, errorx.New(errorx.PreconditionFailed, "Require an access token")
	}

	client := e.apiGenerator.New(apiURL, path, args...).
		Header("User-Agent", userAgent)

	return e.execute(ctx, http.MethodGet, client, api.OAuth2("Bearer", session.AccessToken))
}

// execute is the single authorized-request path: one outbound call, then the
// shared status classifier. Every operation of the endpoint funnels through
// here or through send+classifyResponse.
func (e *Endpoint) execute(ctx context.Context, method string, client api.Client, opts ...api.Opt) (any, error) {
	resp, err := e.send(ctx, method, client, opts...)
	if err != nil {
		return nil, err
	}

	return classifyResponse(resp)
}

// send issues exactly one outbound call, no retries. Transport failures carry
// no status to classify, so they surface as Unknown.
func (e *Endpoint) send(ctx context.Context, method string, client api.Client, opts ...api.Opt) (*api.Response, error) {
	var resp *api.Response
	var err error
	switch method {
	case http.MethodGet:
		resp, err = client.GET(ctx, opts...)
	case http.MethodPost:
		resp, err = client.POST(ctx, opts...)
	case http.MethodPut:
		resp, err = client.PUT(ctx, opts...)
	case http.MethodPatch:
		resp, err = client.PATCH(ctx, opts...)
	case http.MethodDelete:
		resp, err = client.DELETE(ctx, opts...)
	default:
		return nil, errorx.New(errorx.Validation, "Not supported method %s", method)
	}

	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot call to discord: %v", err)
		return nil, errorx.Unknown
	}

	return resp, nil
}
