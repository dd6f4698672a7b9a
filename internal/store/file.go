package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vyrodovalexey/inventory/internal/model"
)

// DefaultFileName is the backing file used when none is configured.
const DefaultFileName = "inventory.json"

const (
	fileIndent = "    "
	filePerm   = 0o644
)

// LoadOutcome describes how the backing file was read at construction.
type LoadOutcome string

// Load outcomes.
const (
	LoadOutcomeLoaded     LoadOutcome = "loaded"
	LoadOutcomeMissing    LoadOutcome = "missing"
	LoadOutcomeParseError LoadOutcome = "parse_error"
	LoadOutcomeIOError    LoadOutcome = "io_error"
)

// FileStore is a MemoryStore mirrored to a single JSON backing file.
// Every successful mutation rewrites the whole file unless auto-save is
// disabled, in which case the store stays dirty until Save is called.
type FileStore struct {
	*MemoryStore

	path   string
	logger *zap.Logger

	// saveMu serializes mutations with writes and guards the fields below.
	saveMu   sync.Mutex
	autoSave bool
	dirty    bool

	loadOutcome LoadOutcome
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithAutoSave enables or disables the write after every mutation.
func WithAutoSave(enabled bool) Option {
	return func(s *FileStore) {
		s.autoSave = enabled
	}
}

// NewFileStore creates a FileStore and loads path into it. A missing,
// unreadable or malformed file is reported through logger and leaves the
// store empty; the file itself is not touched until the next save.
func NewFileStore(path string, logger *zap.Logger, opts ...Option) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &FileStore{
		MemoryStore: NewMemoryStore(),
		path:        path,
		logger:      logger,
		autoSave:    true,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.loadOutcome = s.load()
	inventoryLoadsTotal.WithLabelValues(string(s.loadOutcome)).Inc()
	inventoryItems.Set(float64(s.Len()))

	return s
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// LoadOutcome reports how the backing file was read at construction.
func (s *FileStore) LoadOutcome() LoadOutcome {
	return s.loadOutcome
}

// Dirty reports whether there are changes not yet written to the file.
func (s *FileStore) Dirty() bool {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	return s.dirty
}

// AutoSave reports whether mutations are written immediately.
func (s *FileStore) AutoSave() bool {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	return s.autoSave
}

// SetAutoSave turns the write after every mutation on or off. Pending
// changes are not flushed; call Save for that.
func (s *FileStore) SetAutoSave(enabled bool) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.autoSave = enabled
}

func (s *FileStore) load() LoadOutcome {
	records, err := readRecords(s.path)
	switch {
	case err == nil:
		s.replace(records)
		s.logger.Info("inventory loaded from file",
			zap.String("path", s.path),
			zap.Int("items", len(records)),
		)
		return LoadOutcomeLoaded
	case errors.Is(err, fs.ErrNotExist):
		s.logger.Info("inventory file not found, a new one will be created on save",
			zap.String("path", s.path),
		)
		return LoadOutcomeMissing
	case errors.Is(err, ErrParse):
		s.logger.Error("inventory file is malformed, starting with an empty inventory",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return LoadOutcomeParseError
	default:
		s.logger.Error("failed to read inventory file, starting with an empty inventory",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return LoadOutcomeIOError
	}
}

// readRecords reads and decodes the backing file.
func readRecords(path string) (map[string]model.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: reading %s: %w", ErrIO, path, err)
	}

	var records map[string]model.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, path, err)
	}
	if records == nil {
		records = make(map[string]model.Record)
	}

	return records, nil
}

// encodeRecords renders records as an indented JSON object.
func encodeRecords(records map[string]model.Record) ([]byte, error) {
	if records == nil {
		records = map[string]model.Record{}
	}
	return json.MarshalIndent(records, "", fileIndent)
}

// Save writes the whole inventory to the backing file.
func (s *FileStore) Save(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("save inventory: %w", ctx.Err())
	default:
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	return s.saveLocked()
}

// saveLocked writes the file. Callers hold s.saveMu. A failed write keeps
// the store dirty so the next save retries it.
func (s *FileStore) saveLocked() error {
	start := time.Now()
	err := s.write()
	inventorySaveDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		s.dirty = true
		inventoryUnsaved.Set(1)
		inventorySavesTotal.WithLabelValues(saveResultFailure).Inc()
		s.logger.Error("failed to save inventory",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return err
	}

	s.dirty = false
	inventoryUnsaved.Set(0)
	inventorySavesTotal.WithLabelValues(saveResultSuccess).Inc()
	s.logger.Info("inventory saved to file",
		zap.String("path", s.path),
		zap.Int("items", s.Len()),
	)
	return nil
}

func (s *FileStore) write() error {
	data, err := encodeRecords(s.snapshot())
	if err != nil {
		return fmt.Errorf("encoding inventory: %w", err)
	}

	if err := os.WriteFile(s.path, data, filePerm); err != nil {
		return fmt.Errorf("%w: writing %s: %w", ErrIO, s.path, err)
	}

	return nil
}

// persist runs after a successful mutation. A write failure is logged by
// saveLocked and not returned: the mutation stays visible in memory.
func (s *FileStore) persist(operation string) {
	s.dirty = true
	inventoryUnsaved.Set(1)
	inventoryItems.Set(float64(s.Len()))

	if !s.autoSave {
		s.logger.Debug("auto-save disabled, deferring write",
			zap.String("operation", operation),
		)
		return
	}

	_ = s.saveLocked()
}

// Add inserts a new item and saves the inventory.
func (s *FileStore) Add(ctx context.Context, item *model.Item) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if err := s.MemoryStore.Add(ctx, item); err != nil {
		return err
	}

	s.persist("add")
	return nil
}

// Remove deletes an item and saves the inventory.
func (s *FileStore) Remove(ctx context.Context, id string) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if err := s.MemoryStore.Remove(ctx, id); err != nil {
		return err
	}

	s.persist("remove")
	return nil
}

// Update overwrites the supplied fields and saves the inventory, even when
// the patch is empty.
func (s *FileStore) Update(ctx context.Context, id string, patch model.Patch) (*model.Item, error) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	item, err := s.MemoryStore.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.persist("update")
	return item, nil
}
