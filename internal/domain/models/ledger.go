package models

import (
	"time"
)

// ItemKind distinguishes the item tables a ledger entry may reference.
type ItemKind string

const (
	ItemKindPage ItemKind = "page"
	ItemKindFile ItemKind = "file"
	ItemKindForm ItemKind = "form"
)

// Valid reports whether the kind is one of the known item kinds.
func (k ItemKind) Valid() bool {
	switch k {
	case ItemKindPage, ItemKindFile, ItemKindForm:
		return true
	}
	return false
}

// LedgerEntry is one membership record in a workspace's ordering ledger.
// Identity is the (WorkspaceID, Kind, ItemID) triple; Position is unique
// within the workspace across all kinds combined. The entry is a weak
// reference - it does not own the page/file/form it points at.
type LedgerEntry struct {
	WorkspaceID   string    `json:"workspace_id" db:"workspace_id"`
	Kind          ItemKind  `json:"kind" db:"kind"`
	ItemID        string    `json:"item_id" db:"item_id"`
	Position      int       `json:"position" db:"position"`
	Depth         int       `json:"depth" db:"depth"`
	IsInAIContext bool      `json:"is_in_ai_context" db:"is_in_ai_context"`
	IsCollapsed   bool      `json:"is_collapsed" db:"is_collapsed"`
	AddedAt       time.Time `json:"added_at" db:"added_at"`
}

// WorkspaceItem is a composite-view row: a ledger entry resolved against the
// item repository that owns the referenced record. Orphaned is set when the
// referenced item no longer exists; the entry itself is kept until an
// explicit cascade removes it.
type WorkspaceItem struct {
	LedgerEntry
	Title    string `json:"title"`
	Active   bool   `json:"active"`
	Orphaned bool   `json:"orphaned"`
}

// ItemSummary is the minimal projection an item repository exposes for the
// composite view. Full content retrieval stays with the owning repository.
type ItemSummary struct {
	Title  string `json:"title"`
	Active bool   `json:"active"`
}

// PositionStats describes the shape of a workspace's position sequence.
// Diagnostics and tests use it to assert the canonical 0..N-1 invariant.
type PositionStats struct {
	Count       int  `json:"count"`
	Min         int  `json:"min"`
	Max         int  `json:"max"`
	UniqueCount int  `json:"unique_count"`
	HasGaps     bool `json:"has_gaps"`
}

// Canonical reports whether the stats describe an exact 0..N-1 sequence.
func (s *PositionStats) Canonical() bool {
	if s.Count == 0 {
		return true
	}
	return s.Min == 0 && s.Max == s.Count-1 && s.UniqueCount == s.Count && !s.HasGaps
}
