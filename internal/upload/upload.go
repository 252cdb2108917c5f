// Package upload resolves the pending files of a draft into object storage
// references.
package upload

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/meur/athletefolio/internal/draft"
	"github.com/meur/athletefolio/internal/objectstore"
	"github.com/meur/athletefolio/internal/schema"
)

// DefaultConcurrency bounds simultaneous writes to object storage
const DefaultConcurrency = 4

// Orchestrator uploads pending files and swaps in their URIs
type Orchestrator struct {
	store  objectstore.Store
	schema *schema.Schema
	limit  int
	now    func() time.Time
	log    *zap.Logger
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithConcurrency sets how many uploads run at once
func WithConcurrency(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.limit = n
		}
	}
}

// WithClock replaces time.Now for object keys
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithLogger sets the logger
func WithLogger(log *zap.Logger) Option {
	return func(o *Orchestrator) {
		if log != nil {
			o.log = log
		}
	}
}

// New creates an orchestrator writing to store
func New(store objectstore.Store, s *schema.Schema, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:  store,
		schema: s,
		limit:  DefaultConcurrency,
		now:    time.Now,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Report describes what a Resolve call did
type Report struct {
	// Uploaded counts stored files per field
	Uploaded map[string]int
	// Failed holds the first upload error per field
	Failed map[string]error
	// Blocking lists required file fields still unresolved
	Blocking []string
}

// OK reports whether every pending file was stored
func (r Report) OK() bool {
	return len(r.Failed) == 0
}

type job struct {
	field string
	index int
	file  *draft.PendingFile
	uri   string
	err   error
}

// Resolve writes every pending file in d to object storage and returns a
// copy of d with the stored URIs in place of the pending references. A
// failed upload leaves that file pending and is reported on its field;
// the other files are still attempted.
func (o *Orchestrator) Resolve(ctx context.Context, ownerID string, d draft.Draft) (draft.Draft, Report) {
	out := d.Clone()
	report := Report{Uploaded: map[string]int{}, Failed: map[string]error{}}

	var jobs []*job
	for _, f := range o.schema.Fields() {
		if f.Kind != schema.KindFile && f.Kind != schema.KindFileList {
			continue
		}
		for i, ref := range out.Get(f.Name).Files {
			if ref.IsPending() {
				jobs = append(jobs, &job{field: f.Name, index: i, file: ref.Pending})
			}
		}
	}

	stamp := o.now().UnixMilli()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.limit)
	for n, j := range jobs {
		key := ObjectKey(ownerID, j.field, stamp, n, j.file)
		g.Go(func() error {
			j.uri, j.err = o.store.Put(gctx, key, j.file.Data, j.file.ContentType)
			return nil
		})
	}
	_ = g.Wait()

	for _, j := range jobs {
		if j.err != nil {
			o.log.Warn("upload failed",
				zap.String("owner", ownerID),
				zap.String("field", j.field),
				zap.String("file", j.file.Filename),
				zap.Error(j.err))
			if _, seen := report.Failed[j.field]; !seen {
				report.Failed[j.field] = j.err
			}
			continue
		}
		out[j.field].Files[j.index] = draft.Uploaded(j.uri)
		report.Uploaded[j.field]++
		o.log.Debug("uploaded file",
			zap.String("owner", ownerID),
			zap.String("field", j.field),
			zap.String("uri", j.uri))
	}

	for _, f := range o.schema.Fields() {
		if f.Required && (f.Kind == schema.KindFile || f.Kind == schema.KindFileList) {
			if out.Get(f.Name).HasPending() {
				report.Blocking = append(report.Blocking, f.Name)
			}
		}
	}

	return out, report
}

// Purge deletes every object stored for an owner
func (o *Orchestrator) Purge(ctx context.Context, ownerID string) (int, error) {
	if ownerID == "" {
		return 0, fmt.Errorf("purge: empty owner")
	}
	keys, err := o.store.List(ctx, ownerID+"/")
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}
	if err := o.store.DeleteMany(ctx, keys); err != nil {
		return 0, err
	}
	return len(keys), nil
}

// ObjectKey names an uploaded file as
// "{owner}/{field}/{owner}-{millis}-{n}.{ext}". Purge relies on the owner
// prefix.
func ObjectKey(ownerID, field string, millis int64, n int, f *draft.PendingFile) string {
	return fmt.Sprintf("%s/%s/%s-%d-%d%s", ownerID, field, ownerID, millis, n, extension(f))
}

func extension(f *draft.PendingFile) string {
	ext := strings.ToLower(filepath.Ext(f.Filename))
	if ext != "" && len(ext) <= 8 && !strings.ContainsAny(ext, `/\ `) {
		return ext
	}
	if exts, err := mime.ExtensionsByType(f.ContentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}
