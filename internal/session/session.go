// Package session owns one visitor's pass through the form: the access-code
// check on entry, the restored draft, every edit, and the final submission.
// A session is the only owner of its FormState; all mutations go through it.
package session

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/hrinsight/onboardform/internal/draft"
	"github.com/hrinsight/onboardform/internal/errl"
	"github.com/hrinsight/onboardform/internal/i18n"
	"github.com/hrinsight/onboardform/internal/models"
	"github.com/hrinsight/onboardform/internal/recruitapi"
	"github.com/hrinsight/onboardform/internal/schema"
	"github.com/hrinsight/onboardform/internal/wizard"
)

// ErrInvalidAccessCode covers every way the entry gate can fail: missing
// code, falsy check result, or a failed check call. They all collapse into
// the same outcome, a redirect to the information-submitted page.
var ErrInvalidAccessCode = errors.New("invalid access code")

// ErrNotStarted is returned by operations used before the gate has passed.
var ErrNotStarted = errors.New("session not started")

// ErrLastRelative is returned when removing the only remaining relative.
var ErrLastRelative = errors.New("at least one family member must remain")

// ErrIndexOutOfRange is returned for a list index that does not exist.
var ErrIndexOutOfRange = errors.New("index out of range")

// ErrNotFileShaped is returned when an attachment misses name, size or type.
var ErrNotFileShaped = errors.New("attachment is not a valid file reference")

// ErrUnknownAttachmentField is returned for a field name that is not one of
// the five attachment fields.
var ErrUnknownAttachmentField = errors.New("unknown attachment field")

// Session is one visitor's form-filling session.
type Session struct {
	mu sync.Mutex

	id     string
	code   string
	form   *models.FormState
	wizard *wizard.Controller

	api    *recruitapi.Client
	drafts *draft.Store
	slot   string

	started   bool
	rejected  bool
	submitted bool

	restored      bool
	restoredNames map[string]string

	now func() time.Time
	rng *rand.Rand
}

// New creates an unstarted session. The form does not exist until the access
// code has been verified by Start.
func New(api *recruitapi.Client, drafts *draft.Store, slot string) *Session {
	return &Session{
		id:     uuid.NewString(),
		api:    api,
		drafts: drafts,
		slot:   slot,
		now:    time.Now,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Start runs the entry gate exactly once: it verifies the one-time access
// code against the backend and, only on an explicit positive result,
// initializes the form and restores any saved draft (attachment contents are
// never restorable, only their names). Every failure returns
// ErrInvalidAccessCode and leaves the form uninitialized.
func (s *Session) Start(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started || s.rejected {
		return errl.Errorf("session already started")
	}

	if code == "" {
		s.rejected = true
		slog.Info("No access code in entry URL")
		return ErrInvalidAccessCode
	}

	ok, err := s.api.CheckCode(ctx, code)
	if err != nil {
		s.rejected = true
		slog.Error("Error checking code validity", "error", err)
		return ErrInvalidAccessCode
	}
	if !ok {
		s.rejected = true
		slog.Info("Access code rejected by backend", "code", code)
		return ErrInvalidAccessCode
	}

	s.code = code
	s.form = models.NewFormState()
	s.wizard = wizard.New()
	s.started = true

	d, found, err := s.drafts.Restore(s.slot)
	if err != nil {
		// A broken draft store must not block the form.
		slog.Error("Error restoring draft", "error", err)
		return nil
	}
	if found {
		s.form = d.Form
		s.restored = true
		s.restoredNames = d.AttachmentNames
		slog.Info("Loaded saved form data", "slot", s.slot)
	}
	return nil
}

// Started reports whether the gate has passed.
func (s *Session) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// Rejected reports whether the gate has failed.
func (s *Session) Rejected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rejected
}

// Submitted reports whether the form has been successfully submitted.
func (s *Session) Submitted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitted
}

// Restored reports whether a saved draft was loaded on start, together with
// the display-only names of the files attached when it was saved.
func (s *Session) Restored() (bool, map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restored, s.restoredNames
}

// Snapshot returns a copy of the current form state.
func (s *Session) Snapshot() (models.FormState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return models.FormState{}, ErrNotStarted
	}
	return *s.form, nil
}

// Wizard state, exposed for the HTTP surface.

// CurrentSection returns the active wizard section.
func (s *Session) CurrentSection() (wizard.Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return "", ErrNotStarted
	}
	return s.wizard.Current(), nil
}

// CompletedSections returns the completed sections in form order.
func (s *Session) CompletedSections() []wizard.Section {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil
	}
	return s.wizard.Completed()
}

// Next marks the current section completed and advances. It deliberately
// does not validate the section; the final submit validates everything.
func (s *Session) Next() (wizard.Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return "", ErrNotStarted
	}
	return s.wizard.GoNext(), nil
}

// Back moves to the preceding section.
func (s *Session) Back() (wizard.Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return "", ErrNotStarted
	}
	return s.wizard.GoBack(), nil
}

// Jump moves directly to the named section, subject to the wizard rules.
func (s *Session) Jump(target wizard.Section) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return ErrNotStarted
	}
	return s.wizard.JumpTo(target)
}

// Validate runs the full-form validation at the current instant.
func (s *Session) Validate() (schema.Errors, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return schema.Validate(s.form, s.now()), nil
}

// Submit validates the whole form, builds the wire payload, POSTs it with
// the original access code, and on confirmed success re-saves the draft
// (without file contents). On any failure the in-memory form, attachments
// included, is preserved so the user can retry manually.
func (s *Session) Submit(ctx context.Context) (*recruitapi.SubmitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil, ErrNotStarted
	}

	if verrs := schema.Validate(s.form, s.now()); verrs != nil {
		return nil, verrs
	}

	rec, err := recruitapi.BuildRecord(s.form, s.now(), s.rng)
	if err != nil {
		return nil, errl.Errorf("building submission record: %w", err)
	}

	result, err := s.api.Submit(ctx, s.code, rec, recruitapi.AttachmentsFromForm(s.form))
	if err != nil {
		slog.Error("Error submitting form", "error", err)
		return nil, err
	}

	if err := s.drafts.Save(s.slot, s.form); err != nil {
		// Submission already succeeded; a draft failure is only logged.
		slog.Error("Error saving draft after submission", "error", err)
	}
	s.submitted = true
	return result, nil
}

// SaveDraft persists the current form into the slot on demand.
func (s *Session) SaveDraft() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return ErrNotStarted
	}
	return s.drafts.Save(s.slot, s.form)
}

// ClearSaved removes the saved draft and resets the form to its initial
// shape: one blank relative and the default bank.
func (s *Session) ClearSaved() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return ErrNotStarted
	}
	if err := s.drafts.Clear(s.slot); err != nil {
		return err
	}
	s.form = models.NewFormState()
	s.restored = false
	s.restoredNames = nil
	return nil
}

// Language returns the stored UI language preference, defaulting to
// Vietnamese.
func (s *Session) Language() language.Tag {
	tag, _, err := s.drafts.Language(s.slot)
	if err != nil {
		slog.Error("Error reading language preference", "error", err)
		return i18n.Vietnamese
	}
	return tag
}

// SetLanguage stores the UI language preference.
func (s *Session) SetLanguage(code string) error {
	return s.drafts.SaveLanguage(s.slot, i18n.Match(code))
}
