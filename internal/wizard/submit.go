package wizard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/meur/athletefolio/internal/draft"
	"github.com/meur/athletefolio/internal/models"
	"github.com/meur/athletefolio/internal/schema"
	"github.com/meur/athletefolio/internal/transcode"
	"github.com/meur/athletefolio/internal/upload"
	"github.com/meur/athletefolio/internal/validate"
)

// ErrSubmitInProgress is returned while the same owner's previous submit
// has not finished
var ErrSubmitInProgress = errors.New("submission already in progress")

// ValidationError means the draft failed its checks; nothing was written
type ValidationError struct {
	Step   int
	Errors validate.Errors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("draft invalid on step %d: %v", e.Step, e.Errors.Fields())
}

// UserMessage is safe to show the user
func (e *ValidationError) UserMessage() string {
	return "Please fix the highlighted fields before submitting"
}

// UploadError means a required file could not be stored
type UploadError struct {
	Labels []string
	Failed map[string]error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("required uploads unresolved: %s", strings.Join(e.Labels, ", "))
}

// UserMessage is safe to show the user
func (e *UploadError) UserMessage() string {
	return "Some files could not be uploaded: " + strings.Join(e.Labels, ", ") + ". Please try again."
}

// PersistenceError means the record write failed; the draft is kept so
// the user can retry
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return "failed to save profile: " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// UserMessage is safe to show the user
func (e *PersistenceError) UserMessage() string {
	return "We couldn't save your profile. Your answers are kept, please try again."
}

// UserMessage returns the user-facing text for a submission error
func UserMessage(err error) string {
	var um interface{ UserMessage() string }
	if errors.As(err, &um) {
		return um.UserMessage()
	}
	if errors.Is(err, ErrSubmitInProgress) {
		return "Your profile is already being saved"
	}
	return "Something went wrong, please try again"
}

// FileResolver uploads a draft's pending files
type FileResolver interface {
	Resolve(ctx context.Context, ownerID string, d draft.Draft) (draft.Draft, upload.Report)
}

// ProfileWriter persists a record for an owner, creating or updating it
type ProfileWriter interface {
	SaveProfile(ctx context.Context, ownerID string, p *models.Profile) (*models.Profile, error)
}

// Result is a completed submission
type Result struct {
	Profile *models.Profile
	// Skipped lists optional file fields left out because their upload failed
	Skipped []string
}

// Submitter runs the final step of a wizard: validate, upload, encode,
// write. At most one submission per owner is in flight at a time.
type Submitter struct {
	files      FileResolver
	profiles   ProfileWriter
	transcoder *transcode.Transcoder
	log        *zap.Logger

	mu       sync.Mutex
	inflight map[string]bool
}

// NewSubmitter wires a submitter
func NewSubmitter(files FileResolver, profiles ProfileWriter, log *zap.Logger) *Submitter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Submitter{
		files:      files,
		profiles:   profiles,
		transcoder: transcode.New(log),
		log:        log,
		inflight:   map[string]bool{},
	}
}

func (s *Submitter) acquire(ownerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[ownerID] {
		return false
	}
	s.inflight[ownerID] = true
	return true
}

func (s *Submitter) release(ownerID string) {
	s.mu.Lock()
	delete(s.inflight, ownerID)
	s.mu.Unlock()
}

// Submit validates every step, resolves pending files, then writes the
// encoded record once. Resolved URIs are written back into the wizard's
// store so a retry after a failed write does not upload again.
func (s *Submitter) Submit(ctx context.Context, ownerID string, w *Wizard) (*Result, error) {
	if !s.acquire(ownerID) {
		return nil, ErrSubmitInProgress
	}
	defer s.release(ownerID)

	sc := w.Schema()
	snap := w.store.Snapshot()
	for step := 1; step <= sc.StepCount(); step++ {
		if errs := validate.Step(sc, snap, step); !errs.Valid() {
			w.current = step
			w.errors = errs
			return nil, &ValidationError{Step: step, Errors: errs}
		}
	}

	resolved, report := s.files.Resolve(ctx, ownerID, snap)
	w.store.Hydrate(resolved)

	if len(report.Blocking) > 0 {
		return nil, &UploadError{Labels: labels(sc, report.Blocking), Failed: report.Failed}
	}

	var skipped []string
	for field := range report.Failed {
		skipped = append(skipped, field)
	}
	sort.Strings(skipped)
	if len(skipped) > 0 {
		s.log.Info("optional uploads skipped",
			zap.String("owner", ownerID),
			zap.Strings("fields", skipped))
	}

	rec := s.transcoder.Encode(resolved)
	saved, err := s.profiles.SaveProfile(ctx, ownerID, &rec)
	if err != nil {
		s.log.Error("profile write failed", zap.String("owner", ownerID), zap.Error(err))
		return nil, &PersistenceError{Err: err}
	}

	return &Result{Profile: saved, Skipped: skipped}, nil
}

func labels(sc *schema.Schema, fields []string) []string {
	out := make([]string, 0, len(fields))
	for _, name := range fields {
		if f, ok := sc.Field(name); ok {
			out = append(out, f.Label)
			continue
		}
		out = append(out, name)
	}
	return out
}
