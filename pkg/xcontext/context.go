package xcontext

import (
	"context"
	"net/http"

	"github.com/questx-lab/discord-oauth2/pkg/logger"
)

type (
	loggerKey     struct{}
	httpClientKey struct{}
)

func WithLogger(ctx context.Context, l logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// Logger returns the logger carried by ctx, or a default WARNING-level logger
// if none was set.
func Logger(ctx context.Context) logger.Logger {
	if l, ok := ctx.Value(loggerKey{}).(logger.Logger); ok {
		return l
	}

	return logger.NewLogger(logger.WARNING)
}

func WithHTTPClient(ctx context.Context, client *http.Client) context.Context {
	return context.WithValue(ctx, httpClientKey{}, client)
}

// HTTPClient returns the http client carried by ctx, or http.DefaultClient if
// none was set.
func HTTPClient(ctx context.Context) *http.Client {
	if client, ok := ctx.Value(httpClientKey{}).(*http.Client); ok {
		return client
	}

	return http.DefaultClient
}
