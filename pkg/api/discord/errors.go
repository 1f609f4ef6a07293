package discord

import (
	"encoding/json"
	"net/http"

	"github.com/questx-lab/discord-oauth2/pkg/api"
	"github.com/questx-lab/discord-oauth2/pkg/errorx"
)

var statusErrors = map[int]errorx.Error{
	http.StatusBadRequest:          errorx.New(errorx.BadRequest, "Malformed request"),
	http.StatusUnauthorized:        errorx.New(errorx.InvalidAccessToken, "Invalid or expired access token"),
	http.StatusForbidden:           errorx.New(errorx.Forbidden, "Forbidden"),
	http.StatusNotFound:            errorx.New(errorx.NotFound, "Not found"),
	http.StatusTooManyRequests:     errorx.New(errorx.RateLimited, "You are being rate limited"),
	http.StatusInternalServerError: errorx.New(errorx.UpstreamServer, "Discord server error"),
}

// classifyResponse returns the decoded body of a successful response, or the
// typed error its status maps to. When the upstream body carries a message
// field, the error keeps that message and the serialized body as context;
// otherwise only the mapped message is raised.
func classifyResponse(resp *api.Response) (any, error) {
	if resp.Code >= http.StatusOK && resp.Code <= http.StatusMultipleChoices {
		return resp.Body, nil
	}

	errx, ok := statusErrors[resp.Code]
	if !ok {
		errx = errorx.New(errorx.Unclassified, "Request failed with status %d", resp.Code)
	}

	if body, ok := resp.Body.(api.JSON); ok {
		if msg, err := body.GetString("message"); err == nil && msg != "" {
			errx.Message = errx.Message + ": " + msg
			errx = errx.WithContext(serializeBody(resp))
		}
	}

	return nil, errx
}

func serializeBody(resp *api.Response) string {
	if len(resp.RawBody) > 0 {
		return string(resp.RawBody)
	}

	b, err := json.Marshal(resp.Body)
	if err != nil {
		return ""
	}

	return string(b)
}
