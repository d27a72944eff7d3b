package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/hupe1980/agentsim/core"
	"github.com/hupe1980/agentsim/logging"
)

// Consolidator folds a batch of evicted short-term entries into the content
// of a single long-term entry. Implementations must be pure with respect to
// the store: the same input entries always produce the same content.
type Consolidator func(entries []core.MemoryEntry) map[string]any

// ConcatConsolidator is the default consolidation policy: it concatenates the
// rendered entries into one summary line.
func ConcatConsolidator(entries []core.MemoryEntry) map[string]any {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.String()
	}
	return map[string]any{"text": strings.Join(lines, "; ")}
}

// StoreOptions configure a Store.
type StoreOptions struct {
	// ShortTermCapacity bounds the short-term log. Once an add would push the
	// log past this bound, consolidation triggers first.
	ShortTermCapacity int
	// ConsolidationCapacity is the number of oldest short-term entries folded
	// into one long-term entry per consolidation trigger.
	ConsolidationCapacity int
	// Consolidate is the consolidation policy; defaults to ConcatConsolidator.
	Consolidate Consolidator
	// Logger receives debug output; defaults to a NoOpLogger.
	Logger logging.Logger
}

// Store is the base per-agent memory: a bounded FIFO short-term log plus an
// append-only long-term log populated only by consolidation.
//
// Consolidation is deterministic given the same sequence of adds: it triggers
// exactly when an add would push short-term memory past capacity and consumes
// exactly ConsolidationCapacity oldest entries per trigger.
//
// A Store is owned by a single agent but guarded by a mutex because message
// delivery tools append into recipient stores from the sender's goroutine.
type Store struct {
	mu                    sync.Mutex
	shortTermCapacity     int
	consolidationCapacity int
	consolidate           Consolidator
	logger                logging.Logger

	shortTerm []core.MemoryEntry
	longTerm  []core.MemoryEntry
}

// NewStore constructs a Store. Defaults: capacity 5, consolidation batch 2.
// Invalid capacities fail fast with a ConfigurationError.
func NewStore(optFns ...func(o *StoreOptions)) (*Store, error) {
	opts := StoreOptions{
		ShortTermCapacity:     5,
		ConsolidationCapacity: 2,
		Consolidate:           ConcatConsolidator,
		Logger:                logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.ShortTermCapacity < 1 {
		return nil, core.NewConfigurationError("memory.Store", "short-term capacity must be at least 1")
	}
	if opts.ConsolidationCapacity < 1 || opts.ConsolidationCapacity > opts.ShortTermCapacity {
		return nil, core.NewConfigurationError("memory.Store",
			"consolidation capacity must be between 1 and the short-term capacity")
	}
	if opts.Consolidate == nil {
		opts.Consolidate = ConcatConsolidator
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Store{
		shortTermCapacity:     opts.ShortTermCapacity,
		consolidationCapacity: opts.ConsolidationCapacity,
		consolidate:           opts.Consolidate,
		logger:                opts.Logger,
	}, nil
}

// Add implements core.Memory. It never fails once the store is constructed;
// ctx is accepted for interface symmetry with grading stores.
func (s *Store) Add(_ context.Context, kind core.MemoryKind, content map[string]any, step int, metadata map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.shortTerm) >= s.shortTermCapacity {
		s.consolidateOldestLocked()
	}
	s.shortTerm = append(s.shortTerm, core.MemoryEntry{
		Kind:     kind,
		Content:  content,
		Step:     step,
		Metadata: metadata,
	})
	return nil
}

// consolidateOldestLocked folds the oldest ConsolidationCapacity short-term
// entries into one long-term entry. Caller must hold the lock.
func (s *Store) consolidateOldestLocked() {
	batch := make([]core.MemoryEntry, s.consolidationCapacity)
	copy(batch, s.shortTerm[:s.consolidationCapacity])
	s.shortTerm = append(s.shortTerm[:0], s.shortTerm[s.consolidationCapacity:]...)

	s.longTerm = append(s.longTerm, core.MemoryEntry{
		Kind:    core.KindConsolidated,
		Content: s.consolidate(batch),
		Step:    batch[len(batch)-1].Step,
	})
	s.logger.Debug("memory.consolidated", "entries", len(batch), "long_term_len", len(s.longTerm))
}

// FormatShortTerm implements core.Memory.
func (s *Store) FormatShortTerm() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return formatEntries(s.shortTerm, "No short-term memory")
}

// FormatLongTerm implements core.Memory.
func (s *Store) FormatLongTerm() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return formatEntries(s.longTerm, "No long-term memory")
}

// LastEntry implements core.Memory.
func (s *Store) LastEntry() (core.MemoryEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.shortTerm) == 0 {
		return core.MemoryEntry{}, false
	}
	return s.shortTerm[len(s.shortTerm)-1], true
}

// ShortTermEntries returns a copy of the current short-term log in
// chronological order.
func (s *Store) ShortTermEntries() []core.MemoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.MemoryEntry, len(s.shortTerm))
	copy(out, s.shortTerm)
	return out
}

// LongTermEntries returns a copy of the consolidated long-term log.
func (s *Store) LongTermEntries() []core.MemoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.MemoryEntry, len(s.longTerm))
	copy(out, s.longTerm)
	return out
}

func formatEntries(entries []core.MemoryEntry, empty string) string {
	if len(entries) == 0 {
		return empty
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.String()
	}
	return strings.Join(lines, "\n")
}
