package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/meur/athletefolio/internal/models"
)

// ErrNotFound is returned by writes that target a missing profile
var ErrNotFound = errors.New("profile not found")

// Store handles all database operations
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a new Store with SQLite
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate runs database migrations
func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			owner_id TEXT UNIQUE NOT NULL,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			sport TEXT NOT NULL DEFAULT '',
			position TEXT NOT NULL DEFAULT '',
			graduation_year TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			avatar_url TEXT NOT NULL DEFAULT '',
			published INTEGER NOT NULL DEFAULT 1,
			data TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_profiles_published ON profiles(published, last_name, first_name)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_owner ON sessions(owner_id)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// --- Profiles ---

const profileColumns = `id, owner_id, published, data, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*models.Profile, error) {
	var (
		p       models.Profile
		data    string
		id      string
		owner   string
		pub     bool
		created time.Time
		updated time.Time
	)
	if err := row.Scan(&id, &owner, &pub, &data, &created, &updated); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("profile %s: corrupt data: %w", id, err)
	}
	p.ID, p.OwnerID, p.Published = id, owner, pub
	p.CreatedAt, p.UpdatedAt = created, updated
	return &p, nil
}

// GetProfile returns a profile by ID
func (s *Store) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	p, err := scanProfile(s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// GetProfileByOwner returns the single profile an owner may have
func (s *Store) GetProfileByOwner(ctx context.Context, ownerID string) (*models.Profile, error) {
	return getProfileByOwner(ctx, s.db, ownerID)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getProfileByOwner(ctx context.Context, q querier, ownerID string) (*models.Profile, error) {
	p, err := scanProfile(q.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE owner_id = ?`, ownerID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// ListPublished returns every published profile ordered by name
func (s *Store) ListPublished(ctx context.Context) ([]models.Profile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+profileColumns+`
		FROM profiles WHERE published = 1
		ORDER BY last_name COLLATE NOCASE, first_name COLLATE NOCASE, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

// SaveProfile creates the owner's profile or updates the existing one.
// Updates merge: scalar keys absent from the encoded patch keep their stored
// values, while lists and file references are replaced. Record metadata (id, owner, published, timestamps) is never
// taken from the patch.
func (s *Store) SaveProfile(ctx context.Context, ownerID string, patch *models.Profile) (*models.Profile, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	saved, err := saveProfile(ctx, tx, ownerID, patch, s.now())
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return saved, nil
}

// BulkSaveProfiles saves many owner/profile pairs in one transaction
func (s *Store) BulkSaveProfiles(ctx context.Context, profiles []models.Profile) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := s.now()
	for i := range profiles {
		p := &profiles[i]
		if p.OwnerID == "" {
			return fmt.Errorf("profile %d: owner_id is required", i)
		}
		if _, err := saveProfile(ctx, tx, p.OwnerID, p, now); err != nil {
			return fmt.Errorf("profile %d: %w", i, err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE profiles SET published = ? WHERE owner_id = ?`, p.Published, p.OwnerID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func saveProfile(ctx context.Context, tx *sql.Tx, ownerID string, patch *models.Profile, now time.Time) (*models.Profile, error) {
	existing, err := getProfileByOwner(ctx, tx, ownerID)
	if err != nil {
		return nil, err
	}

	merged := &models.Profile{}
	if existing != nil {
		merged, err = mergeProfile(existing, patch)
		if err != nil {
			return nil, err
		}
		merged.ID, merged.OwnerID, merged.Published = existing.ID, ownerID, existing.Published
		merged.CreatedAt = existing.CreatedAt
	} else {
		merged, err = mergeProfile(merged, patch)
		if err != nil {
			return nil, err
		}
		merged.ID, merged.OwnerID, merged.Published = uuid.New().String(), ownerID, true
		merged.CreatedAt = now
	}
	merged.UpdatedAt = now

	data, err := json.Marshal(stripMeta(merged))
	if err != nil {
		return nil, err
	}

	if existing == nil {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO profiles (id, owner_id, first_name, last_name, sport, position,
				graduation_year, location, avatar_url, published, data, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, merged.ID, ownerID, merged.FirstName, merged.LastName, merged.Sport, merged.Position,
			merged.GraduationYear, merged.Location, merged.AvatarURL, merged.Published, string(data),
			merged.CreatedAt, merged.UpdatedAt)
	} else {
		_, err = tx.ExecContext(ctx, `
			UPDATE profiles SET first_name = ?, last_name = ?, sport = ?, position = ?,
				graduation_year = ?, location = ?, avatar_url = ?, data = ?, updated_at = ?
			WHERE id = ?
		`, merged.FirstName, merged.LastName, merged.Sport, merged.Position,
			merged.GraduationYear, merged.Location, merged.AvatarURL, string(data),
			merged.UpdatedAt, merged.ID)
	}
	if err != nil {
		return nil, err
	}
	return merged, nil
}

var metaKeys = []string{"id", "owner_id", "published", "created_at", "updated_at"}

// Lists and file references are always written whole: one missing from the
// patch was removed
var replacedKeys = []string{
	"avatar_url", "resume_url", "logo_url",
	"gallery", "journey_teams", "achievements", "educational_background",
	"timeline_teams", "timeline_tournaments", "video_links", "press", "media_links",
}

// mergeProfile overlays the keys present in patch's JSON onto base.
// Scalars absent from the patch keep the base value; lists and files are replaced.
func mergeProfile(base, patch *models.Profile) (*models.Profile, error) {
	var fields map[string]json.RawMessage
	b, err := json.Marshal(base)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, err
	}

	var overlay map[string]json.RawMessage
	b, err = json.Marshal(patch)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, &overlay); err != nil {
		return nil, err
	}
	for _, k := range metaKeys {
		delete(overlay, k)
	}
	for _, k := range replacedKeys {
		delete(fields, k)
	}
	for k, v := range overlay {
		fields[k] = v
	}

	b, err = json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	var out models.Profile
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// stripMeta drops columns that live outside the data blob
func stripMeta(p *models.Profile) *models.Profile {
	c := *p
	c.ID, c.OwnerID, c.Published = "", "", false
	c.CreatedAt, c.UpdatedAt = time.Time{}, time.Time{}
	return &c
}

// SetPublished shows or hides an owner's profile in the directory
func (s *Store) SetPublished(ctx context.Context, ownerID string, published bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET published = ?, updated_at = ? WHERE owner_id = ?`,
		published, s.now(), ownerID)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// DeleteProfile removes an owner's profile
func (s *Store) DeleteProfile(ctx context.Context, ownerID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE owner_id = ?`, ownerID)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Sessions ---

// generateToken creates an opaque session token
func generateToken() string {
	return strings.ReplaceAll(uuid.New().String()+uuid.New().String(), "-", "")
}

// CreateSession issues a bearer token for an owner
func (s *Store) CreateSession(ctx context.Context, ownerID string) (string, error) {
	if ownerID == "" {
		return "", fmt.Errorf("owner id is required")
	}
	token := generateToken()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (token, owner_id, created_at) VALUES (?, ?, ?)`,
		token, ownerID, s.now())
	if err != nil {
		return "", err
	}
	return token, nil
}

// OwnerForToken resolves a bearer token. Unknown tokens return "".
func (s *Store) OwnerForToken(ctx context.Context, token string) (string, error) {
	var owner string
	err := s.db.QueryRowContext(ctx,
		`SELECT owner_id FROM sessions WHERE token = ?`, token).Scan(&owner)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return owner, nil
}

// DeleteSessions revokes every token of an owner
func (s *Store) DeleteSessions(ctx context.Context, ownerID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE owner_id = ?`, ownerID)
	return err
}
