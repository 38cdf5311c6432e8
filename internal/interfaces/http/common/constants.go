package common

import "time"

const (
	// MaxReviewRequestBody limits JSON request bodies for review endpoints.
	MaxReviewRequestBody = 16 << 10
	// RequestTimeout bounds every storage round-trip made on behalf of a request.
	RequestTimeout = 5 * time.Second
)
