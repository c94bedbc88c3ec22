package assumption

import (
	"time"

	"github.com/albarami/ImpactOS-sub000/internal/library"
)

// #region kinds
// Kind is a governed assumption category.
type Kind string

const (
	KindImportShare Kind = "IMPORT_SHARE"
	KindPhasing     Kind = "PHASING"
	KindDeflator    Kind = "DEFLATOR"
	KindWageProxy   Kind = "WAGE_PROXY"
	KindCapacityCap Kind = "CAPACITY_CAP"
	KindJobsCoeff   Kind = "JOBS_COEFF"
)

// ValueType determines how a default's value is interpreted.
type ValueType string

const (
	ValueNumeric     ValueType = "NUMERIC"
	ValueCategorical ValueType = "CATEGORICAL"
)
// #endregion kinds

// #region default
// Default is a sector-level default assumption used to pre-populate the
// assumption register of a new engagement. Numeric defaults carry a
// plausible range; categorical defaults carry the allowed values. An empty
// SectorCode marks an economy-wide default.
type Default struct {
	ID                 string      `json:"assumption_default_id"`
	Kind               Kind        `json:"assumption_type"`
	SectorCode         string      `json:"sector_code,omitempty"`
	Name               string      `json:"name"`
	ValueType          ValueType   `json:"value_type"`
	NumericValue       *float64    `json:"default_numeric_value,omitempty"`
	NumericRange       *[2]float64 `json:"default_numeric_range,omitempty"`
	TextValue          string      `json:"default_text_value,omitempty"`
	AllowedValues      []string    `json:"allowed_values,omitempty"`
	Unit               string      `json:"unit"`
	Rationale          string      `json:"rationale"`
	Source             string      `json:"source"` // "benchmark_initial", "engagement_calibrated", "expert"
	SourceEngagementID string      `json:"source_engagement_id,omitempty"`
	UsageCount         int         `json:"usage_count"`
	LastValidatedAt    *time.Time  `json:"last_validated_at,omitempty"`
	Confidence         string      `json:"confidence"` // "high", "medium", "low", "assumed"
}
// #endregion default

// #region draft
// Draft is a mutable assumption library draft.
type Draft struct {
	ID              string              `json:"draft_id"`
	ParentVersionID string              `json:"parent_version_id,omitempty"`
	Defaults        []Default           `json:"defaults"`
	Status          library.DraftStatus `json:"status"`
	ChangeLog       []string            `json:"changes_from_parent,omitempty"`
	AddedEntryIDs   []string            `json:"added_entry_ids,omitempty"`
	RemovedEntryIDs []string            `json:"removed_entry_ids,omitempty"`
}
// #endregion draft
