// Package media uploads note attachments to a remote media host and returns
// stable URLs for them.
package media

import "context"

// Kind selects the remote resource type for an upload.
type Kind string

const (
	// KindImage stores the object through the host's image pipeline.
	KindImage Kind = "image"
	// KindAudio stores the object through the host's video pipeline; the host
	// files audio under video resources.
	KindAudio Kind = "video"
)

// UploadRequest describes one buffer to push to the media host.
type UploadRequest struct {
	// Field is the originating form field ("image" or "audio"), used in
	// error messages.
	Field    string
	Filename string
	Data     []byte
	Folder   string
	Kind     Kind
}

// Uploader pushes binary buffers to the media host.
type Uploader interface {
	// Upload stores the buffer remotely and returns its URL. Failures wrap
	// apperr.ErrUploadFailed.
	Upload(ctx context.Context, req UploadRequest) (string, error)
	// Remove deletes a previously uploaded object by URL. Callers treat it as
	// best-effort and tolerate failure.
	Remove(ctx context.Context, url string) error
}
