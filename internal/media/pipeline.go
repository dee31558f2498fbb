package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"

	"golang.org/x/sync/errgroup"

	"github.com/rosales/inkwell/internal/apperr"
)

// Attachments holds the URLs produced by one request's uploads. Empty fields
// mean no attachment was supplied.
type Attachments struct {
	ImageURL string
	AudioURL string
}

// Pipeline collects the optional "image" and "audio" files from a multipart
// form and uploads them to the media host.
type Pipeline struct {
	up       Uploader
	folder   string
	maxBytes int64
}

// NewPipeline creates a pipeline uploading into folder, rejecting files above
// maxBytes.
func NewPipeline(up Uploader, folder string, maxBytes int64) *Pipeline {
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &Pipeline{up: up, folder: folder, maxBytes: maxBytes}
}

type filePart struct {
	name string
	data []byte
}

// Collect uploads whatever attachment fields are present in form. A nil form
// or absent field yields an empty URL. If any upload fails, objects already
// stored for this request are removed best-effort before the error is
// returned, so the caller never persists a half-attached note.
func (p *Pipeline) Collect(ctx context.Context, form *multipart.Form) (Attachments, error) {
	var out Attachments
	if form == nil {
		return out, nil
	}

	image, err := p.readField(form, "image")
	if err != nil {
		return out, err
	}
	audio, err := p.readField(form, "audio")
	if err != nil {
		return out, err
	}

	g, gCtx := errgroup.WithContext(ctx)
	if image != nil {
		g.Go(func() error {
			url, err := p.up.Upload(gCtx, UploadRequest{
				Field:    "image",
				Filename: image.name,
				Data:     image.data,
				Folder:   p.folder,
				Kind:     KindImage,
			})
			if err != nil {
				return err
			}
			out.ImageURL = url
			return nil
		})
	}
	if audio != nil {
		g.Go(func() error {
			url, err := p.up.Upload(gCtx, UploadRequest{
				Field:    "audio",
				Filename: audio.name,
				Data:     audio.data,
				Folder:   p.folder,
				Kind:     KindAudio,
			})
			if err != nil {
				return err
			}
			out.AudioURL = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		p.compensate(ctx, out)
		return Attachments{}, err
	}
	return out, nil
}

// Remove deletes a previously uploaded object. Best-effort from the caller's
// point of view.
func (p *Pipeline) Remove(ctx context.Context, url string) error {
	return p.up.Remove(ctx, url)
}

// compensate drops whichever objects made it to the host before a sibling
// upload failed.
func (p *Pipeline) compensate(ctx context.Context, att Attachments) {
	for _, url := range []string{att.ImageURL, att.AudioURL} {
		if url == "" {
			continue
		}
		if err := p.up.Remove(context.WithoutCancel(ctx), url); err != nil {
			slog.Warn("attachment compensation failed",
				slog.String("url", url), slog.String("error", err.Error()))
		}
	}
}

// readField buffers the first file of the named field, enforcing the size cap.
func (p *Pipeline) readField(form *multipart.Form, field string) (*filePart, error) {
	files := form.File[field]
	if len(files) == 0 {
		return nil, nil
	}
	fh := files[0]
	if fh.Size > p.maxBytes {
		return nil, fmt.Errorf("media: %s exceeds %d bytes: %w", field, p.maxBytes, apperr.ErrInvalid)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("media: open %s: %w", field, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, p.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("media: read %s: %w", field, err)
	}
	if int64(len(data)) > p.maxBytes {
		return nil, fmt.Errorf("media: %s exceeds %d bytes: %w", field, p.maxBytes, apperr.ErrInvalid)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &filePart{name: fh.Filename, data: data}, nil
}
