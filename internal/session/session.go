// Package session holds the per-user analysis state: the loaded dataset snapshot, the selected
// athlete, the display mode and the free-text observations typed for each athlete.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Antoink/SDRV3/internal/dataset"
	"github.com/Antoink/SDRV3/internal/utils"
)

// Field names one observation box of an athlete.
type Field string

const (
	FieldStrengths  Field = "strengths"
	FieldWeaknesses Field = "weaknesses"
	FieldStrategy   Field = "strategy"
	FieldHistory    Field = "history"
)

// Fields lists the observation boxes in report order.
var Fields = []Field{FieldStrengths, FieldWeaknesses, FieldStrategy, FieldHistory}

var (
	// ErrUnknownField is returned for a note field outside Fields.
	ErrUnknownField = errors.New("unknown note field")
	// ErrUnknownAthlete is returned when selecting an athlete absent from the dataset.
	ErrUnknownAthlete = errors.New("athlete not found in dataset")
	// ErrNoDataset is returned by operations that need a loaded dataset.
	ErrNoDataset = errors.New("no dataset loaded")
)

// ParseField accepts a field name case-insensitively.
func ParseField(s string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	for _, k := range Fields {
		if f == k {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q (expected strengths, weaknesses, strategy or history)", ErrUnknownField, s)
}

// Session is one user's state. Methods are safe for concurrent use.
type Session struct {
	ID        string                      `json:"id"`
	Source    string                      `json:"source"`
	Sheet     string                      `json:"sheet,omitempty"`
	Selected  string                      `json:"selected,omitempty"`
	Relative  bool                        `json:"relative"`
	Notes     map[string]map[Field]string `json:"notes"`
	CreatedAt time.Time                   `json:"created_at"`
	UpdatedAt time.Time                   `json:"updated_at"`

	mu      sync.RWMutex
	ds      *dataset.Dataset
	rootDir string
}

// New constructs an in-memory session. Call Save() to persist.
func New(rootDir string) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Notes:     make(map[string]map[Field]string),
		CreatedAt: now,
		UpdatedAt: now,
		rootDir:   rootDir,
	}
}

// Load reads session.json from dir. The dataset is not reloaded; call Reopen for that.
func Load(dir string) (*Session, error) {
	path := filepath.Join(dir, utils.WorkspaceFile)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("session not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	s := &Session{}
	if err := json.Unmarshal(b, s); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	if s.Notes == nil {
		s.Notes = make(map[string]map[Field]string)
	}
	s.rootDir = dir
	return s, nil
}

// RootDir returns the on-disk session directory path.
func (s *Session) RootDir() string { return s.rootDir }

// Save writes session.json using atomic write.
func (s *Session) Save() error {
	if s.rootDir == "" {
		return errors.New("session root directory not set")
	}
	if err := utils.EnsureDir(s.rootDir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	s.mu.Lock()
	s.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(s)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(s.rootDir, utils.WorkspaceFile), data)
}

// Dataset returns the current snapshot, nil before the first load.
func (s *Session) Dataset() *dataset.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ds
}

// Reload swaps the dataset snapshot wholesale. Notes are kept; the selection is cleared when
// the athlete is no longer present.
func (s *Session) Reload(ds *dataset.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ds = ds
	if ds != nil {
		s.Source = ds.Source
		if _, ok := ds.Find(s.Selected); !ok {
			s.Selected = ""
		}
	}
	s.UpdatedAt = time.Now()
}

// Open loads path into the session. On failure the previous snapshot stays in place.
func (s *Session) Open(path string, opt dataset.Options) error {
	ds, err := dataset.Load(path, opt)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.Sheet = opt.Sheet
	s.mu.Unlock()
	s.Reload(ds)
	return nil
}

// Reopen reloads the recorded source, e.g. after Load.
func (s *Session) Reopen() error {
	s.mu.RLock()
	src, sheet := s.Source, s.Sheet
	s.mu.RUnlock()
	if src == "" {
		return ErrNoDataset
	}
	return s.Open(src, dataset.Options{Sheet: sheet})
}

// Adopt copies an uploaded file verbatim to dst, then loads the copy. The copy happens only
// once the upload parses, so a bad upload never replaces the working file.
func (s *Session) Adopt(upload, dst string, opt dataset.Options) error {
	if _, err := dataset.Load(upload, opt); err != nil {
		return err
	}
	if err := utils.CopyFile(upload, dst); err != nil {
		return fmt.Errorf("save working copy: %w", err)
	}
	return s.Open(dst, opt)
}

// Select makes athlete the current selection.
func (s *Session) Select(athlete string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ds == nil {
		return ErrNoDataset
	}
	if _, ok := s.ds.Find(athlete); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAthlete, athlete)
	}
	s.Selected = athlete
	return nil
}

// Current returns the selected athlete, "" when none.
func (s *Session) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Selected
}

// SetRelative toggles the per-kilogram display mode.
func (s *Session) SetRelative(on bool) {
	s.mu.Lock()
	s.Relative = on
	s.mu.Unlock()
}

// IsRelative reports the display mode.
func (s *Session) IsRelative() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Relative
}

// SetNote stores text for (athlete, field). Empty text removes the note.
func (s *Session) SetNote(athlete string, field Field, text string) error {
	if _, err := ParseField(string(field)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	text = strings.TrimSpace(text)
	notes := s.Notes[athlete]
	if text == "" {
		delete(notes, field)
		if len(notes) == 0 {
			delete(s.Notes, athlete)
		}
		return nil
	}
	if notes == nil {
		notes = make(map[Field]string)
		s.Notes[athlete] = notes
	}
	notes[field] = text
	s.UpdatedAt = time.Now()
	return nil
}

// Note returns the text stored for (athlete, field).
func (s *Session) Note(athlete string, field Field) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Notes[athlete][field]
}

// NotesFor returns a copy of every note of athlete.
func (s *Session) NotesFor(athlete string) map[Field]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[Field]string, len(s.Notes[athlete]))
	for k, v := range s.Notes[athlete] {
		out[k] = v
	}
	return out
}

// Annotated lists the athletes holding at least one note, sorted.
func (s *Session) Annotated() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.Notes))
	for a := range s.Notes {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}
