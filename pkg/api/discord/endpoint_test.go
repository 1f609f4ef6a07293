package discord

import (
	"context"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/questx-lab/discord-oauth2/pkg/api"
	"github.com/questx-lab/discord-oauth2/pkg/errorx"
	"github.com/questx-lab/discord-oauth2/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func sampleEndpoint() *Endpoint {
	return New(testutil.SampleConfigs().Discord)
}

func sampleSession() *Session {
	return &Session{AccessToken: "access-token", RefreshToken: "refresh-token"}
}

func Test_Endpoint_GetMe(t *testing.T) {
	endpoint := sampleEndpoint()
	endpoint.apiGenerator = &api.MockAPIGenerator{
		MockClient: api.MockAPIClient{
			GETFunc: func(ctx context.Context, opts ...api.Opt) (*api.Response, error) {
				return &api.Response{
					Code: http.StatusOK,
					Body: api.JSON{
						"id":            "175928847299117063",
						"username":      "nelly",
						"discriminator": "1337",
						"global_name":   "Nelly",
					},
				}, nil
			},
		},
	}

	user, err := endpoint.GetMe(context.Background(), sampleSession())
	require.NoError(t, err)
	require.Equal(t, User{
		ID:            "175928847299117063",
		Username:      "nelly",
		Discriminator: "1337",
		GlobalName:    "Nelly",
	}, user)
}

func Test_Endpoint_GetMe_InvalidAccessToken(t *testing.T) {
	endpoint := sampleEndpoint()
	endpoint.apiGenerator = &api.MockAPIGenerator{
		MockClient: api.MockAPIClient{
			GETFunc: func(ctx context.Context, opts ...api.Opt) (*api.Response, error) {
				return &api.Response{
					Code:    http.StatusUnauthorized,
					Body:    api.JSON{"message": "invalid token"},
					RawBody: []byte(`{"message":"invalid token"}`),
				}, nil
			},
		},
	}

	_, err := endpoint.GetMe(context.Background(), sampleSession())
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.InvalidAccessToken, errx.Code)
	require.Contains(t, errx.Message, "invalid token")
	require.Contains(t, errx.Context, `"invalid token"`)
}

func Test_Endpoint_GetMe_UpstreamServerError(t *testing.T) {
	endpoint := sampleEndpoint()
	endpoint.apiGenerator = &api.MockAPIGenerator{
		MockClient: api.MockAPIClient{
			GETFunc: func(ctx context.Context, opts ...api.Opt) (*api.Response, error) {
				return &api.Response{Code: http.StatusInternalServerError, Body: api.JSON{}}, nil
			},
		},
	}

	_, err := endpoint.GetMe(context.Background(), sampleSession())
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.UpstreamServer, errx.Code)
	require.Equal(t, "Discord server error", errx.Message)
	require.Empty(t, errx.Context)
}

func Test_Endpoint_GetMe_UnclassifiedStatus(t *testing.T) {
	endpoint := sampleEndpoint()
	endpoint.apiGenerator = &api.MockAPIGenerator{
		MockClient: api.MockAPIClient{
			GETFunc: func(ctx context.Context, opts ...api.Opt) (*api.Response, error) {
				return &api.Response{Code: http.StatusBadGateway, Body: api.JSON{}}, nil
			},
		},
	}

	_, err := endpoint.GetMe(context.Background(), sampleSession())
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.Unclassified, errx.Code)
}

func Test_Endpoint_GetMe_RequireAccessToken(t *testing.T) {
	endpoint := sampleEndpoint()

	_, err := endpoint.GetMe(context.Background(), &Session{})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.PreconditionFailed, errx.Code)
}

func Test_Endpoint_GetUsername(t *testing.T) {
	testcases := []struct {
		name          string
		discriminator string
		expected      string
	}{
		{name: "legacy account", discriminator: "1337", expected: "nelly#1337"},
		{name: "migrated account", discriminator: "0", expected: "nelly"},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			endpoint := sampleEndpoint()
			endpoint.apiGenerator = &api.MockAPIGenerator{
				MockClient: api.MockAPIClient{
					GETFunc: func(ctx context.Context, opts ...api.Opt) (*api.Response, error) {
						return &api.Response{
							Code: http.StatusOK,
							Body: api.JSON{"id": "1", "username": "nelly", "discriminator": tc.discriminator},
						}, nil
					},
				},
			}

			username, err := endpoint.GetUsername(context.Background(), sampleSession())
			require.NoError(t, err)
			require.Equal(t, tc.expected, username)
		})
	}
}

func Test_Endpoint_GetConnections(t *testing.T) {
	endpoint := sampleEndpoint()
	endpoint.apiGenerator = &api.MockAPIGenerator{
		MockClient: api.MockAPIClient{
			GETFunc: func(ctx context.Context, opts ...api.Opt) (*api.Response, error) {
				return &api.Response{
					Code: http.StatusOK,
					Body: api.Array{
						{"id": "1234567890", "name": "nelly", "type": "github", "verified": true},
					},
				}, nil
			},
		},
	}

	connections, err := endpoint.GetConnections(context.Background(), sampleSession())
	require.NoError(t, err)
	require.Equal(t, []Connection{
		{ID: "1234567890", Name: "nelly", Type: "github", Verified: true},
	}, connections)
}

func Test_Endpoint_GetGuilds(t *testing.T) {
	endpoint := sampleEndpoint()
	endpoint.apiGenerator = &api.MockAPIGenerator{
		MockClient: api.MockAPIClient{
			GETFunc: func(ctx context.Context, opts ...api.Opt) (*api.Response, error) {
				return &api.Response{
					Code: http.StatusOK,
					Body: api.Array{
						{"id": "80351110224678912", "name": "1337 Krew", "owner": true, "permissions": "36953089"},
					},
				}, nil
			},
		},
	}

	guilds, err := endpoint.GetGuilds(context.Background(), sampleSession())
	require.NoError(t, err)
	require.Equal(t, []Guild{
		{ID: "80351110224678912", Name: "1337 Krew", Owner: true, Permissions: "36953089"},
	}, guilds)
}

func Test_Endpoint_GetGuildMember(t *testing.T) {
	endpoint := sampleEndpoint()
	endpoint.apiGenerator = &api.MockAPIGenerator{
		MockClient: api.MockAPIClient{
			GETFunc: func(ctx context.Context, opts ...api.Opt) (*api.Response, error) {
				return &api.Response{
					Code: http.StatusOK,
					Body: api.JSON{
						"nick":  "NOT API SUPPORT",
						"roles": []any{"41771983423143936"},
						"user":  map[string]any{"id": "80351110224678912", "username": "nelly"},
					},
				}, nil
			},
		},
	}

	guildID, err := ParseSnowflake("80351110224678912")
	require.NoError(t, err)

	member, err := endpoint.GetGuildMember(context.Background(), sampleSession(), guildID)
	require.NoError(t, err)
	require.Equal(t, Member{
		Nick:  "NOT API SUPPORT",
		Roles: []string{"41771983423143936"},
		User:  User{ID: "80351110224678912", Username: "nelly"},
	}, member)
}

func Test_Endpoint_GetCurrentApplication_RequireBotToken(t *testing.T) {
	cfg := testutil.SampleConfigs().Discord
	cfg.BotToken = ""
	endpoint := New(cfg)

	_, err := endpoint.GetCurrentApplication(context.Background())
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.PreconditionFailed, errx.Code)
}

func Test_Endpoint_JoinGuild(t *testing.T) {
	endpoint := sampleEndpoint()
	endpoint.apiGenerator = &api.MockAPIGenerator{
		MockClient: api.MockAPIClient{
			PUTFunc: func(ctx context.Context, opts ...api.Opt) (*api.Response, error) {
				return &api.Response{Code: http.StatusNoContent, Body: api.JSON{}}, nil
			},
		},
	}

	guildID, err := ParseSnowflake("941309705826041986")
	require.NoError(t, err)
	userID, err := ParseSnowflake("175928847299117063")
	require.NoError(t, err)

	err = endpoint.JoinGuild(context.Background(), sampleSession(), guildID, userID)
	require.NoError(t, err)
}

func Test_Endpoint_JoinGuild_Forbidden(t *testing.T) {
	endpoint := sampleEndpoint()
	endpoint.apiGenerator = &api.MockAPIGenerator{
		MockClient: api.MockAPIClient{
			PUTFunc: func(ctx context.Context, opts ...api.Opt) (*api.Response, error) {
				return &api.Response{
					Code:    http.StatusForbidden,
					Body:    api.JSON{"message": "Missing Permissions", "code": float64(50013)},
					RawBody: []byte(`{"message":"Missing Permissions","code":50013}`),
				}, nil
			},
		},
	}

	guildID, err := ParseSnowflake("941309705826041986")
	require.NoError(t, err)
	userID, err := ParseSnowflake("175928847299117063")
	require.NoError(t, err)

	err = endpoint.JoinGuild(context.Background(), sampleSession(), guildID, userID)
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.Forbidden, errx.Code)
	require.Contains(t, errx.Context, "Missing Permissions")
}

func Test_Endpoint_JoinGuild_TooManyRequest(t *testing.T) {
	endpoint := sampleEndpoint()

	resetAt := time.Now().Add(time.Second)
	endpoint.apiGenerator = &api.MockAPIGenerator{
		MockClient: api.MockAPIClient{
			PUTFunc: func(ctx context.Context, opts ...api.Opt) (*api.Response, error) {
				return &api.Response{
					Code:   http.StatusTooManyRequests,
					Header: http.Header{"X-Ratelimit-Reset": []string{strconv.FormatInt(resetAt.Unix(), 10)}},
				}, nil
			},
		},
	}

	guildID, err := ParseSnowflake("941309705826041986")
	require.NoError(t, err)
	userID, err := ParseSnowflake("175928847299117063")
	require.NoError(t, err)

	// Call API with a response of TooManyRequest.
	err = endpoint.JoinGuild(context.Background(), sampleSession(), guildID, userID)
	gotResetAt, ok := RateLimitReset(err)
	require.True(t, ok)
	require.Equal(t, resetAt.Unix(), gotResetAt.Unix())

	// Check the resource with identifier, ensure that it is limited.
	err = endpoint.checkLimitingResource(joinGuildResource, guildID.String())
	gotResetAt, ok = RateLimitReset(err)
	require.True(t, ok)
	require.Equal(t, resetAt.Unix(), gotResetAt.Unix())

	// Check another identifier, ensure that it is NOT limited.
	err = endpoint.checkLimitingResource(joinGuildResource, "941309705826041987")
	require.NoError(t, err)

	// Sleep until the limiting of resource expired. Check again.
	time.Sleep(time.Second)
	err = endpoint.checkLimitingResource(joinGuildResource, guildID.String())
	require.NoError(t, err)
}

func Test_Endpoint_JoinGuild_RequireBotToken(t *testing.T) {
	cfg := testutil.SampleConfigs().Discord
	cfg.BotToken = ""
	endpoint := New(cfg)

	guildID, err := ParseSnowflake("941309705826041986")
	require.NoError(t, err)
	userID, err := ParseSnowflake("175928847299117063")
	require.NoError(t, err)

	err = endpoint.JoinGuild(context.Background(), sampleSession(), guildID, userID)
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.PreconditionFailed, errx.Code)
}
