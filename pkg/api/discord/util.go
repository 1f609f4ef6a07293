package discord

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/puzpuzpuz/xsync"
	"github.com/questx-lab/discord-oauth2/pkg/api"
	"github.com/questx-lab/discord-oauth2/pkg/errorx"
	"github.com/questx-lab/discord-oauth2/pkg/xcontext"
)

func decode(ctx context.Context, body, target any) error {
	if err := mapstructure.Decode(body, target); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot decode response body: %v", err)
		return errorx.Unknown
	}

	return nil
}

// checkLimitingResource fails fast when a previous 429 marked this resource
// and identifier as limited, so no call goes out before the window resets.
func (e *Endpoint) checkLimitingResource(resource, identifier string) error {
	if limit, ok := e.rateLimitResource.Load(resource); ok {
		if resetAt, ok := limit.Load(identifier); ok {
			if resetAt.After(time.Now()) {
				return rateLimitedUntil(resetAt.Unix())
			}

			// The limit window passed, forget it.
			limit.Delete(identifier)
		}
	}

	return nil
}

func (e *Endpoint) rememberTooManyRequest(resp *api.Response, resource, identifier string) error {
	if resp.Code != http.StatusTooManyRequests {
		return nil
	}

	resetAt, err := strconv.Atoi(resp.Header.Get("X-Ratelimit-Reset"))
	if err != nil {
		return errorx.New(errorx.RateLimited, "You are being rate limited")
	}

	resourceLimiter, _ := e.rateLimitResource.LoadOrStore(resource, xsync.NewMapOf[time.Time]())
	resourceLimiter.Store(identifier, time.Unix(int64(resetAt), 0))
	return rateLimitedUntil(int64(resetAt))
}

func rateLimitedUntil(resetAt int64) error {
	return errorx.New(errorx.RateLimited, "You are being rate limited until %d", resetAt)
}

// RateLimitReset extracts the reset time from a rate limit error, if the
// error carries one.
func RateLimitReset(err error) (time.Time, bool) {
	var errx errorx.Error
	if !errors.As(err, &errx) || errx.Code != errorx.RateLimited {
		return time.Time{}, false
	}

	_, resetAt, found := strings.Cut(errx.Message, "until ")
	if !found {
		return time.Time{}, false
	}

	resetAtInt, err := strconv.Atoi(resetAt)
	if err != nil {
		return time.Time{}, false
	}

	return time.Unix(int64(resetAtInt), 0), true
}
