// Package noteservice implements the note lifecycle: validation, ownership
// checks, attachment uploads, persistence, and post-commit side effects.
package noteservice

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/rosales/inkwell/internal/apperr"
	"github.com/rosales/inkwell/internal/media"
	"github.com/rosales/inkwell/internal/models"
	"github.com/rosales/inkwell/internal/notify"
	"github.com/rosales/inkwell/internal/store"
)

// CreateInput carries the fields of a new note. Form, when non-nil, may hold
// optional "image" and "audio" file parts.
type CreateInput struct {
	Title       string
	Description string
	Date        *time.Time
	Form        *multipart.Form
}

// Validate enforces the service-boundary invariant: title and description are
// always present.
func (in CreateInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required),
		validation.Field(&in.Description, validation.Required),
	)
}

// UpdateInput carries a partial note patch. Empty text fields and a nil date
// mean "keep the current value"; file parts, when present, replace the stored
// attachment URLs.
type UpdateInput struct {
	Title       string
	Description string
	Date        *time.Time
	Form        *multipart.Form
}

// Events receives note lifecycle notifications for streaming to clients.
type Events interface {
	PublishNoteEvent(kind, id, owner string)
}

// Service coordinates the note store, attachment pipeline, and notifier.
// It is stateless between requests; all note state lives in the store.
type Service struct {
	store       store.Store
	attachments *media.Pipeline
	notifier    notify.Notifier
	events      Events
}

// New creates a note service with its collaborators injected.
func New(st store.Store, attachments *media.Pipeline, notifier notify.Notifier, events Events) *Service {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Service{store: st, attachments: attachments, notifier: notifier, events: events}
}

// List returns the caller's notes, newest first.
func (s *Service) List(ctx context.Context, caller *models.Identity) ([]models.Note, error) {
	if caller == nil {
		return nil, apperr.ErrUnauthenticated
	}
	return s.store.ListByOwner(ctx, caller.ID)
}

// Create validates input, uploads attachments, and persists a new note.
// Uploads complete before the store write, so a failed upload never leaves a
// note with a broken attachment reference. The owner notification is
// dispatched after the write and never affects the result.
func (s *Service) Create(ctx context.Context, caller *models.Identity, in CreateInput) (*models.Note, error) {
	if caller == nil {
		return nil, apperr.ErrUnauthenticated
	}
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %w", err, apperr.ErrInvalid)
	}

	att, err := s.attachments.Collect(ctx, in.Form)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	note := &models.Note{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Image:       att.ImageURL,
		Audio:       att.AudioURL,
		Date:        in.Date,
		CreatedBy:   caller.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Insert(ctx, note); err != nil {
		s.removeAttachments(ctx, att.ImageURL, att.AudioURL)
		return nil, err
	}

	s.publish("created", note)
	// Detached: the email must not block the response or be cancelled by the
	// client disconnecting.
	go s.notifier.NoteCreated(context.WithoutCancel(ctx), caller.Email, note)

	return note, nil
}

// Get returns a note owned by the caller.
func (s *Service) Get(ctx context.Context, caller *models.Identity, id string) (*models.Note, error) {
	if caller == nil {
		return nil, apperr.ErrUnauthenticated
	}
	note, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := assertOwner(note, caller.ID); err != nil {
		return nil, err
	}
	return note, nil
}

// Update applies the supplied fields and replaces attachments when new files
// are present. Replaced remote objects are removed best-effort after the
// store write succeeds.
func (s *Service) Update(ctx context.Context, caller *models.Identity, id string, in UpdateInput) (*models.Note, error) {
	if caller == nil {
		return nil, apperr.ErrUnauthenticated
	}
	note, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := assertOwner(note, caller.ID); err != nil {
		return nil, err
	}

	att, err := s.attachments.Collect(ctx, in.Form)
	if err != nil {
		return nil, err
	}

	var replaced []string
	if att.ImageURL != "" {
		if note.Image != "" {
			replaced = append(replaced, note.Image)
		}
		note.Image = att.ImageURL
	}
	if att.AudioURL != "" {
		if note.Audio != "" {
			replaced = append(replaced, note.Audio)
		}
		note.Audio = att.AudioURL
	}
	if in.Title != "" {
		note.Title = in.Title
	}
	if in.Description != "" {
		note.Description = in.Description
	}
	if in.Date != nil {
		note.Date = in.Date
	}
	note.UpdatedAt = time.Now().UTC()

	if err := s.store.Update(ctx, note); err != nil {
		s.removeAttachments(ctx, att.ImageURL, att.AudioURL)
		return nil, err
	}

	s.removeAttachments(ctx, replaced...)
	s.publish("updated", note)
	return note, nil
}

// Delete removes the caller's note and its remote attachments.
func (s *Service) Delete(ctx context.Context, caller *models.Identity, id string) error {
	if caller == nil {
		return apperr.ErrUnauthenticated
	}
	note, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := assertOwner(note, caller.ID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.removeAttachments(ctx, note.Image, note.Audio)
	s.publish("deleted", note)
	return nil
}

// assertOwner gates every owner-scoped operation behind a single check.
func assertOwner(note *models.Note, callerID string) error {
	if note.CreatedBy != callerID {
		return apperr.ErrForbidden
	}
	return nil
}

// removeAttachments deletes remote objects best-effort; failures are logged
// and never affect the primary operation.
func (s *Service) removeAttachments(ctx context.Context, urls ...string) {
	for _, u := range urls {
		if u == "" {
			continue
		}
		if err := s.attachments.Remove(context.WithoutCancel(ctx), u); err != nil {
			slog.Warn("attachment cleanup failed",
				slog.String("url", u), slog.String("error", err.Error()))
		}
	}
}

func (s *Service) publish(kind string, note *models.Note) {
	if s.events != nil {
		s.events.PublishNoteEvent(kind, note.ID, note.CreatedBy)
	}
}

// ParseDate parses a form-supplied date, accepting RFC 3339 or YYYY-MM-DD.
// Anything else (including empty) yields nil.
func ParseDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}
