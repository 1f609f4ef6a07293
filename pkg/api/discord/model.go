package discord

import (
	"github.com/bwmarrin/snowflake"
	"github.com/questx-lab/discord-oauth2/pkg/errorx"
)

// Session holds the tokens of one authorized user. It is owned by the caller
// and passed into every user-authorized operation; the endpoint keeps no token
// state of its own. A successful Revoke zeroes both fields.
type Session struct {
	AccessToken  string `mapstructure:"access_token"`
	RefreshToken string `mapstructure:"refresh_token"`
}

type User struct {
	ID            string `mapstructure:"id"`
	Username      string `mapstructure:"username"`
	Discriminator string `mapstructure:"discriminator"`
	GlobalName    string `mapstructure:"global_name"`
	Avatar        string `mapstructure:"avatar"`
}

type Connection struct {
	ID       string `mapstructure:"id"`
	Name     string `mapstructure:"name"`
	Type     string `mapstructure:"type"`
	Verified bool   `mapstructure:"verified"`
}

type Guild struct {
	ID          string `mapstructure:"id"`
	Name        string `mapstructure:"name"`
	Owner       bool   `mapstructure:"owner"`
	Permissions string `mapstructure:"permissions"`
}

type Member struct {
	Nick     string   `mapstructure:"nick"`
	Roles    []string `mapstructure:"roles"`
	JoinedAt string   `mapstructure:"joined_at"`
	User     User     `mapstructure:"user"`
}

type Application struct {
	ID          string `mapstructure:"id"`
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
	BotPublic   bool   `mapstructure:"bot_public"`
}

// Snowflake is a parsed Discord 64-bit identifier. Construct it with
// ParseSnowflake so malformed IDs are rejected at the boundary instead of
// inside each operation.
type Snowflake snowflake.ID

func ParseSnowflake(s string) (Snowflake, error) {
	id, err := snowflake.ParseString(s)
	if err != nil || id < 0 {
		return 0, errorx.New(errorx.Validation, "Invalid snowflake %q", s)
	}

	return Snowflake(id), nil
}

func (s Snowflake) String() string {
	return snowflake.ID(s).String()
}
