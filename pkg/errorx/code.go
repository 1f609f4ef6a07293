package errorx

type Code int

const (
	// Common codes
	BadRequest         Code = 100001
	InvalidAccessToken Code = 100002
	Forbidden          Code = 100003
	NotFound           Code = 100004
	RateLimited        Code = 100005
	UpstreamServer     Code = 100006
	Unclassified       Code = 100007

	// Local codes, raised before any call goes out.
	PreconditionFailed Code = 200001
	Validation         Code = 200002
)
