package repository

import "context"

// MediaRepository uploads captured photos to the media store and returns
// a stable URL once the upload completes. An error is distinct from
// "not yet provided": callers surface it for a per-photo retry.
type MediaRepository interface {
	Upload(ctx context.Context, filename, contentType string, data []byte) (string, error)
}
