package journal

import (
	"time"

	"github.com/google/uuid"
)

// #region note-log
// NoteLog is the in-memory append-only store for calibration notes.
type NoteLog struct {
	notes []CalibrationNote
}

// NewNoteLog returns an empty note log.
func NewNoteLog() *NoteLog { return &NoteLog{} }

// Append stores a note, filling in a missing id or timestamp, and returns
// the stored note.
func (l *NoteLog) Append(n CalibrationNote) CalibrationNote {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	l.notes = append(l.notes, n)
	return n
}

// All returns every note in append order.
func (l *NoteLog) All() []CalibrationNote {
	return append([]CalibrationNote(nil), l.notes...)
}

// Len returns the number of stored notes.
func (l *NoteLog) Len() int { return len(l.notes) }

// BySector returns notes for one sector.
func (l *NoteLog) BySector(sectorCode string) []CalibrationNote {
	return filterNotes(l.notes, func(n CalibrationNote) bool { return n.SectorCode == sectorCode })
}

// ByMetric returns notes affecting one metric.
func (l *NoteLog) ByMetric(metric string) []CalibrationNote {
	return filterNotes(l.notes, func(n CalibrationNote) bool { return n.MetricAffected == metric })
}

// ByEngagement returns notes recorded against one engagement.
func (l *NoteLog) ByEngagement(engagementID string) []CalibrationNote {
	return filterNotes(l.notes, func(n CalibrationNote) bool { return n.EngagementID == engagementID })
}

// Validated returns only validated notes.
func (l *NoteLog) Validated() []CalibrationNote {
	return filterNotes(l.notes, func(n CalibrationNote) bool { return n.Validated })
}

// Unvalidated returns only unvalidated notes.
func (l *NoteLog) Unvalidated() []CalibrationNote {
	return filterNotes(l.notes, func(n CalibrationNote) bool { return !n.Validated })
}

func filterNotes(notes []CalibrationNote, keep func(CalibrationNote) bool) []CalibrationNote {
	var out []CalibrationNote
	for _, n := range notes {
		if keep(n) {
			out = append(out, n)
		}
	}
	return out
}
// #endregion note-log

// #region memory-log
// MemoryLog is the in-memory append-only store for engagement memories.
type MemoryLog struct {
	memories []EngagementMemory
}

// NewMemoryLog returns an empty memory log.
func NewMemoryLog() *MemoryLog { return &MemoryLog{} }

// Append stores a memory, filling in a missing id or timestamp, and returns
// the stored memory.
func (l *MemoryLog) Append(m EngagementMemory) EngagementMemory {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	l.memories = append(l.memories, m)
	return m
}

// All returns every memory in append order.
func (l *MemoryLog) All() []EngagementMemory {
	return append([]EngagementMemory(nil), l.memories...)
}

// Len returns the number of stored memories.
func (l *MemoryLog) Len() int { return len(l.memories) }

// ByCategory returns memories of one category.
func (l *MemoryLog) ByCategory(category string) []EngagementMemory {
	return filterMemories(l.memories, func(m EngagementMemory) bool { return m.Category == category })
}

// BySector returns memories for one sector.
func (l *MemoryLog) BySector(sectorCode string) []EngagementMemory {
	return filterMemories(l.memories, func(m EngagementMemory) bool { return m.SectorCode == sectorCode })
}

// ByEngagement returns memories recorded against one engagement.
func (l *MemoryLog) ByEngagement(engagementID string) []EngagementMemory {
	return filterMemories(l.memories, func(m EngagementMemory) bool { return m.EngagementID == engagementID })
}

// ByTags returns memories carrying ANY of the given tags.
func (l *MemoryLog) ByTags(tags []string) []EngagementMemory {
	want := make(map[string]bool, len(tags))
	for _, t := range tags {
		want[t] = true
	}
	return filterMemories(l.memories, func(m EngagementMemory) bool {
		for _, t := range m.Tags {
			if want[t] {
				return true
			}
		}
		return false
	})
}

func filterMemories(memories []EngagementMemory, keep func(EngagementMemory) bool) []EngagementMemory {
	var out []EngagementMemory
	for _, m := range memories {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}
// #endregion memory-log
