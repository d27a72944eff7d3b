// Package memory implements the per-agent memory subsystem: a bounded
// short-term log with deterministic consolidation into an append-only
// long-term log (Store), and an episodic variant that grades every entry's
// importance through the external generation service (Episodic).
package memory
