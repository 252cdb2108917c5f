package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/meur/athletefolio/internal/auth"
	"github.com/meur/athletefolio/internal/draft"
	"github.com/meur/athletefolio/internal/models"
	"github.com/meur/athletefolio/internal/schema"
	"github.com/meur/athletefolio/internal/storage"
	"github.com/meur/athletefolio/internal/validate"
	"github.com/meur/athletefolio/internal/wizard"
)

// multipart part carrying the draft JSON; every other part is a file
// named after its field
const draftPart = "draft"

func owner(r *http.Request) string {
	o, _ := auth.OwnerFrom(r.Context())
	return o
}

// handleValidateDraft checks a draft for one step, or every step when no
// step is given
func (s *Server) handleValidateDraft(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	d, err := draft.Parse(s.schema, body)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var errs validate.Errors
	if q := r.URL.Query().Get("step"); q != "" {
		step, err := strconv.Atoi(q)
		if err != nil || step < 1 || step > s.schema.StepCount() {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("step must be between 1 and %d", s.schema.StepCount()))
			return
		}
		errs = validate.Step(s.schema, d, step)
	} else {
		errs = validate.All(s.schema, d)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"valid":  errs.Valid(),
		"errors": errs,
	})
}

// handleGetOwnProfile returns the caller's record and its draft form for
// editing
func (s *Server) handleGetOwnProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.store.GetProfileByOwner(r.Context(), owner(r))
	if err != nil {
		s.log.Error("get own profile failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch profile")
		return
	}
	if profile == nil {
		respondError(w, http.StatusNotFound, "Profile not found")
		return
	}

	wire, err := draft.Marshal(s.schema, s.transcoder.Decode(profile))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to prepare draft")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"profile": profile,
		"draft":   json.RawMessage(wire),
	})
}

// handleSubmitProfile runs the final wizard submission: the draft JSON
// plus any newly selected files
func (s *Server) handleSubmitProfile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.deps.MaxUploadBytes)
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid upload, the request may be too large")
		return
	}
	defer r.MultipartForm.RemoveAll()

	var wire []byte
	if v := r.MultipartForm.Value[draftPart]; len(v) > 0 {
		wire = []byte(v[0])
	}
	d, err := draft.Parse(s.schema, wire)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	existing, err := s.store.GetProfileByOwner(r.Context(), owner(r))
	if err != nil {
		s.log.Error("get own profile failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch profile")
		return
	}
	if err := checkFileRefs(s.schema, d, existing); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	wz := wizard.Edit(s.schema, d)
	warnings, err := s.attachFiles(wz.Store(), r.MultipartForm)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.submitter.Submit(r.Context(), owner(r), wz)
	if err != nil {
		var (
			verr *wizard.ValidationError
			uerr *wizard.UploadError
			perr *wizard.PersistenceError
		)
		switch {
		case errors.As(err, &verr):
			respondJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"error":    wizard.UserMessage(err),
				"step":     verr.Step,
				"errors":   verr.Errors,
				"warnings": warnings,
			})
		case errors.As(err, &uerr):
			respondJSON(w, http.StatusBadGateway, map[string]interface{}{
				"error":  wizard.UserMessage(err),
				"fields": uerr.Labels,
			})
		case errors.As(err, &perr):
			respondError(w, http.StatusInternalServerError, wizard.UserMessage(err))
		case errors.Is(err, wizard.ErrSubmitInProgress):
			respondError(w, http.StatusConflict, wizard.UserMessage(err))
		default:
			respondError(w, http.StatusInternalServerError, wizard.UserMessage(err))
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"profile":  result.Profile,
		"skipped":  result.Skipped,
		"warnings": warnings,
	})
}

// checkFileRefs rejects uploaded file URIs the caller's stored record does
// not already hold. New files must arrive as multipart parts.
func checkFileRefs(sc *schema.Schema, d draft.Draft, existing *models.Profile) error {
	known := map[string]bool{}
	if existing != nil {
		for _, u := range storedFiles(existing) {
			known[u] = true
		}
	}
	for _, f := range sc.Fields() {
		if f.Kind != schema.KindFile && f.Kind != schema.KindFileList {
			continue
		}
		for _, u := range d.Get(f.Name).URIs() {
			if !known[u] {
				return fmt.Errorf("%s: %q is not a file of this profile", f.Name, u)
			}
		}
	}
	return nil
}

func storedFiles(p *models.Profile) []string {
	out := append([]string{}, p.Gallery...)
	for _, u := range []string{p.AvatarURL, p.ResumeURL, p.LogoURL} {
		if u != "" {
			out = append(out, u)
		}
	}
	return out
}

// attachFiles moves the multipart files into the draft store. Capacity
// and content-type problems become warnings; the accepted files stay.
func (s *Server) attachFiles(st *draft.Store, form *multipart.Form) ([]string, error) {
	fields := make([]string, 0, len(form.File))
	for name := range form.File {
		fields = append(fields, name)
	}
	sort.Strings(fields)

	var warnings []string
	for _, field := range fields {
		var files []draft.PendingFile
		for _, fh := range form.File[field] {
			pf, err := readPart(fh)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", fh.Filename, err)
			}
			files = append(files, pf)
		}

		err := st.AttachFiles(field, files...)
		var (
			cerr *draft.CapacityError
			terr *draft.TypeError
		)
		switch {
		case err == nil:
		case errors.Is(err, draft.ErrUnknownField), errors.Is(err, draft.ErrWrongKind):
			return nil, fmt.Errorf("file part %q: %w", field, err)
		default:
			if errors.As(err, &cerr) {
				warnings = append(warnings, cerr.Error())
			}
			if errors.As(err, &terr) {
				warnings = append(warnings, terr.Error())
			}
		}
	}
	return warnings, nil
}

func readPart(fh *multipart.FileHeader) (draft.PendingFile, error) {
	f, err := fh.Open()
	if err != nil {
		return draft.PendingFile{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return draft.PendingFile{}, err
	}
	ct := fh.Header.Get("Content-Type")
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(data)
	}
	return draft.PendingFile{Filename: fh.Filename, ContentType: ct, Data: data}, nil
}

// handleSetPublished shows or hides the caller's profile in the directory
func (s *Server) handleSetPublished(w http.ResponseWriter, r *http.Request) {
	var req models.PublishUpdate
	if err := decodeJSON(r, &req); err != nil || req.Published == nil {
		respondError(w, http.StatusBadRequest, "published is required")
		return
	}

	err := s.store.SetPublished(r.Context(), owner(r), *req.Published)
	if errors.Is(err, storage.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Profile not found")
		return
	}
	if err != nil {
		s.log.Error("set published failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"published": *req.Published})
}

// handleDeleteProfile deletes the caller's profile and all of its media
func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	ownerID := owner(r)

	err := s.store.DeleteProfile(r.Context(), ownerID)
	if errors.Is(err, storage.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Profile not found")
		return
	}
	if err != nil {
		s.log.Error("delete profile failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to delete profile")
		return
	}

	removed, err := s.uploads.Purge(r.Context(), ownerID)
	if err != nil {
		s.log.Warn("media purge failed", zap.String("owner", ownerID), zap.Error(err))
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "deleted",
		"objects": removed,
	})
}
