package discord

import "context"

type IEndpoint interface {
	AuthCodeURL(state string, scopes ...string) string
	ExchangeCode(ctx context.Context, code string) (*Session, error)
	RefreshSession(ctx context.Context, session *Session) error
	Revoke(ctx context.Context, session *Session) error
	GetMe(ctx context.Context, session *Session) (User, error)
	GetUsername(ctx context.Context, session *Session) (string, error)
	GetConnections(ctx context.Context, session *Session) ([]Connection, error)
	GetGuilds(ctx context.Context, session *Session) ([]Guild, error)
	GetGuildMember(ctx context.Context, session *Session, guildID Snowflake) (Member, error)
	GetCurrentApplication(ctx context.Context) (Application, error)
	JoinGuild(ctx context.Context, session *Session, guildID, userID Snowflake) error
}
