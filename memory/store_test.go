package memory

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/hupe1980/agentsim/core"
	"github.com/stretchr/testify/assert"
)

// Interface compliance (compile-time assertions)
var _ core.Memory = (*Store)(nil)

func addN(t *testing.T, s *Store, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		err := s.Add(context.Background(), core.KindObservation,
			map[string]any{"text": fmt.Sprintf("event %d", i)}, i, nil)
		if err != nil {
			t.Fatalf("add %d failed: %v", i, err)
		}
	}
}

func TestStore_CapacityBound(t *testing.T) {
	s, err := NewStore(func(o *StoreOptions) {
		o.ShortTermCapacity = 5
		o.ConsolidationCapacity = 2
	})
	assert.NoError(t, err)

	for i := 1; i <= 12; i++ {
		err := s.Add(context.Background(), core.KindObservation,
			map[string]any{"text": fmt.Sprintf("event %d", i)}, i, nil)
		assert.NoError(t, err)
		if got := len(s.ShortTermEntries()); got > 5 {
			t.Fatalf("short-term length %d exceeds capacity after add %d", got, i)
		}
	}
}

func TestStore_ConsolidationTrigger(t *testing.T) {
	s, err := NewStore(func(o *StoreOptions) {
		o.ShortTermCapacity = 5
		o.ConsolidationCapacity = 2
	})
	assert.NoError(t, err)

	// First five adds fill the buffer without consolidating.
	addN(t, s, 5)
	assert.Len(t, s.ShortTermEntries(), 5)
	assert.Empty(t, s.LongTermEntries())

	// The 6th add triggers exactly one consolidation consuming the 2 oldest.
	err = s.Add(context.Background(), core.KindObservation, map[string]any{"text": "event 6"}, 6, nil)
	assert.NoError(t, err)

	short := s.ShortTermEntries()
	long := s.LongTermEntries()
	assert.Len(t, long, 1)
	assert.Len(t, short, 4)
	assert.Equal(t, 3, short[0].Step)
	assert.Equal(t, 6, short[len(short)-1].Step)
	assert.Equal(t, core.KindConsolidated, long[0].Kind)
	// The long-term entry is stamped with the newest consolidated step.
	assert.Equal(t, 2, long[0].Step)
}

func TestStore_OneLongTermEntryPerTrigger(t *testing.T) {
	s, err := NewStore(func(o *StoreOptions) {
		o.ShortTermCapacity = 5
		o.ConsolidationCapacity = 2
	})
	assert.NoError(t, err)

	addN(t, s, 20)
	// Every trigger consumes 2 entries and admits 1, so the buffer oscillates
	// between 4 and 5; each trigger appends exactly one long-term entry.
	long := s.LongTermEntries()
	assert.NotEmpty(t, long)
	for i := 1; i < len(long); i++ {
		if long[i].Step <= long[i-1].Step {
			t.Fatalf("long-term steps not increasing: %d then %d", long[i-1].Step, long[i].Step)
		}
	}
	assert.LessOrEqual(t, len(s.ShortTermEntries()), 5)
}

func TestStore_Deterministic(t *testing.T) {
	build := func() *Store {
		s, err := NewStore(func(o *StoreOptions) {
			o.ShortTermCapacity = 3
			o.ConsolidationCapacity = 2
		})
		if err != nil {
			t.Fatalf("construct: %v", err)
		}
		addN(t, s, 9)
		return s
	}

	a, b := build(), build()
	assert.Equal(t, a.FormatShortTerm(), b.FormatShortTerm())
	assert.Equal(t, a.FormatLongTerm(), b.FormatLongTerm())
}

func TestStore_FormatPreservesOrder(t *testing.T) {
	s, err := NewStore(func(o *StoreOptions) { o.ShortTermCapacity = 10 })
	assert.NoError(t, err)
	addN(t, s, 4)

	rendered := s.FormatShortTerm()
	last := -1
	for i := 1; i <= 4; i++ {
		idx := strings.Index(rendered, fmt.Sprintf("[step %d]", i))
		if idx < 0 {
			t.Fatalf("rendered text missing step %d: %q", i, rendered)
		}
		if idx <= last {
			t.Fatalf("step %d rendered out of order", i)
		}
		last = idx
	}
}

func TestStore_EmptyFormats(t *testing.T) {
	s, err := NewStore()
	assert.NoError(t, err)
	assert.Equal(t, "No short-term memory", s.FormatShortTerm())
	assert.Equal(t, "No long-term memory", s.FormatLongTerm())

	_, ok := s.LastEntry()
	assert.False(t, ok)
}

func TestStore_CustomConsolidator(t *testing.T) {
	s, err := NewStore(func(o *StoreOptions) {
		o.ShortTermCapacity = 2
		o.ConsolidationCapacity = 1
		o.Consolidate = func(entries []core.MemoryEntry) map[string]any {
			return map[string]any{"count": len(entries)}
		}
	})
	assert.NoError(t, err)

	addN(t, s, 3)
	long := s.LongTermEntries()
	assert.Len(t, long, 1)
	assert.Equal(t, 1, long[0].Content["count"])
}

func TestNewStore_InvalidCapacities(t *testing.T) {
	var cfgErr *core.ConfigurationError

	_, err := NewStore(func(o *StoreOptions) { o.ShortTermCapacity = 0 })
	assert.Error(t, err)
	assert.ErrorAs(t, err, &cfgErr)

	_, err = NewStore(func(o *StoreOptions) {
		o.ShortTermCapacity = 2
		o.ConsolidationCapacity = 3
	})
	assert.Error(t, err)
	assert.ErrorAs(t, err, &cfgErr)
}
