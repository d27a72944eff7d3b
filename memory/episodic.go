package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/hupe1980/agentsim/core"
	"github.com/hupe1980/agentsim/logging"
	"github.com/hupe1980/agentsim/model"
)

// gradingSystemPrompt is the rubric the grading model applies to each entry.
const gradingSystemPrompt = `You are an assistant that evaluates memory entries on a scale from 1 to 5, based on their importance to a specific problem or task. Your goal is to assign a score that reflects how much each entry contributes to understanding, solving, or advancing the task. Use the following grading scale:

5 - Critical: Introduces essential, novel information that significantly impacts problem-solving or decision-making.

4 - High: Provides important context or clarification that meaningfully improves understanding or direction.

3 - Moderate: Adds somewhat useful information that may assist but is not essential.

2 - Low: Offers minimal relevance or slight redundancy; impact is marginal.

1 - Irrelevant: Contains no useful or applicable information for the current problem.

Only assess based on the entry's content and its value to the task at hand. Ignore style, grammar, or tone.`

// gradeContextWindow is how many trailing entries are included as context
// when grading a new candidate.
const gradeContextWindow = 5

// eventGrade is the structured response contract for grading calls.
type eventGrade struct {
	Grade int `json:"grade"`
}

var eventGradeSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"grade": map[string]any{
			"type":    "integer",
			"minimum": 1,
			"maximum": 5,
		},
	},
	"required":             []string{"grade"},
	"additionalProperties": false,
}

// EpisodicOptions configure an Episodic store.
type EpisodicOptions struct {
	// MaxMemory bounds the graded entry queue; the oldest entry is silently
	// dropped once the bound is reached.
	MaxMemory int
	// Logger receives debug output; defaults to a NoOpLogger.
	Logger logging.Logger
}

// Episodic is a memory specialization that grades every entry's importance
// through the external generation service before storing it in a bounded
// queue. Unlike Store there is no consolidation step and no long-term log.
//
// Construction requires a grading model; its absence is a hard
// construction-time failure, not a deferred one. Credentials and model
// identity live inside the provider adapter behind model.Model.
type Episodic struct {
	mu        sync.Mutex
	maxMemory int
	grader    model.Model
	logger    logging.Logger
	entries   []core.MemoryEntry
}

// NewEpisodic constructs an Episodic store grading through grader.
// Default MaxMemory is 10.
func NewEpisodic(grader model.Model, optFns ...func(o *EpisodicOptions)) (*Episodic, error) {
	if grader == nil {
		return nil, core.NewConfigurationError("memory.Episodic",
			"a grading model must be provided for the usage of episodic memory")
	}

	opts := EpisodicOptions{
		MaxMemory: 10,
		Logger:    logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxMemory < 1 {
		return nil, core.NewConfigurationError("memory.Episodic", "max memory must be at least 1")
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Episodic{
		maxMemory: opts.MaxMemory,
		grader:    grader,
		logger:    opts.Logger,
	}, nil
}

// GradeImportance scores a candidate entry in [1,5] relative to up to the
// last five stored entries. The call is not retried; a provider failure or a
// response outside the contract surfaces as a GenerationError and leaves the
// store unchanged.
func (e *Episodic) GradeImportance(ctx context.Context, kind core.MemoryKind, content map[string]any) (int, error) {
	prompt := e.buildGradePrompt(kind, content)

	rsp, err := e.grader.Generate(ctx, model.Request{
		System: gradingSystemPrompt,
		Prompt: prompt,
		ResponseFormat: &model.ResponseFormat{
			Name:   "event_grade",
			Schema: eventGradeSchema,
		},
	})
	if err != nil {
		return 0, core.NewGenerationError("grade_importance", err)
	}

	var grade eventGrade
	if err := rsp.Decode(&grade); err != nil {
		return 0, core.NewGenerationError("grade_importance", err)
	}
	if grade.Grade < 1 || grade.Grade > 5 {
		return 0, core.NewGenerationError("grade_importance",
			fmt.Errorf("grade %d outside [1,5]", grade.Grade))
	}

	e.logger.Debug("memory.graded", "kind", kind, "grade", grade.Grade)
	return grade.Grade, nil
}

func (e *Episodic) buildGradePrompt(kind core.MemoryKind, content map[string]any) string {
	e.mu.Lock()
	window := e.entries
	if len(window) > gradeContextWindow {
		window = window[len(window)-gradeContextWindow:]
	}
	previous := make([]string, len(window))
	for i, entry := range window {
		previous[i] = entry.String()
	}
	e.mu.Unlock()

	previousEntries := "No previous memory entries"
	if len(previous) > 0 {
		previousEntries = "previous memory entries:\n\n" + strings.Join(previous, "\n")
	}

	candidate := core.MemoryEntry{Kind: kind, Content: content}
	return fmt.Sprintf(
		"grade the importance of the following event on a scale from 1 to 5:\n%s\n------------------------------\n%s",
		candidate.String(), previousEntries,
	)
}

// Add implements core.Memory. The grade is computed first; only after the
// grading call fully returns is the entry stored, so a cancelled or failed
// call leaves the queue untouched.
func (e *Episodic) Add(ctx context.Context, kind core.MemoryKind, content map[string]any, step int, metadata map[string]any) error {
	grade, err := e.GradeImportance(ctx, kind, content)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.entries) >= e.maxMemory {
		e.entries = append(e.entries[:0], e.entries[1:]...)
	}
	e.entries = append(e.entries, core.MemoryEntry{
		Kind:       kind,
		Content:    content,
		Step:       step,
		Importance: &grade,
		Metadata:   metadata,
	})
	return nil
}

// RetrieveTopK is intended to return the k most valuable entries by a
// combined function of importance and recency. The ranking formula is an
// open design decision for the adopting team; until it is settled this
// returns an empty result unconditionally. Callers must treat an empty
// slice as a valid answer.
func (e *Episodic) RetrieveTopK(k int) []core.MemoryEntry {
	_ = k
	return []core.MemoryEntry{}
}

// FormatShortTerm implements core.Memory; the graded queue is the episodic
// equivalent of short-term memory.
func (e *Episodic) FormatShortTerm() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return formatEntries(e.entries, "No short-term memory")
}

// FormatLongTerm implements core.Memory. Episodic memory keeps no
// consolidated log.
func (e *Episodic) FormatLongTerm() string {
	return "No long-term memory"
}

// LastEntry implements core.Memory.
func (e *Episodic) LastEntry() (core.MemoryEntry, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.entries) == 0 {
		return core.MemoryEntry{}, false
	}
	return e.entries[len(e.entries)-1], true
}

// Entries returns a copy of the graded queue in chronological order.
func (e *Episodic) Entries() []core.MemoryEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]core.MemoryEntry, len(e.entries))
	copy(out, e.entries)
	return out
}
