package journal

import "time"

// #region calibration-note
// CalibrationNote documents an observation about model accuracy: where a
// multiplier, coefficient or ratio diverged from real-world outcomes.
// Validated notes can later be promoted into assumption defaults.
type CalibrationNote struct {
	ID                    string    `json:"note_id"`
	SectorCode            string    `json:"sector_code,omitempty"`
	EngagementID          string    `json:"engagement_id,omitempty"`
	Observation           string    `json:"observation"`
	LikelyCause           string    `json:"likely_cause"`
	RecommendedAdjustment string    `json:"recommended_adjustment,omitempty"`
	MetricAffected        string    `json:"metric_affected"` // "employment", "output_multiplier", "import_ratio"
	Direction             string    `json:"direction"`       // "overstate" or "understate"
	MagnitudeEstimate     *float64  `json:"magnitude_estimate,omitempty"`
	CreatedBy             string    `json:"created_by"`
	CreatedAt             time.Time `json:"created_at"`
	Validated             bool      `json:"validated"`
}
// #endregion calibration-note

// #region engagement-memory
// EngagementMemory captures what happened during an engagement that future
// engagements should know: client challenges, evidence requests, methodology
// disputes, and how they were resolved.
type EngagementMemory struct {
	ID            string    `json:"memory_id"`
	EngagementID  string    `json:"engagement_id"`
	Category      string    `json:"category"` // "challenge", "acceptance", "evidence_request", "methodology_dispute"
	Description   string    `json:"description"`
	SectorCode    string    `json:"sector_code,omitempty"`
	Resolution    string    `json:"resolution,omitempty"`
	TimeToResolve string    `json:"time_to_resolve,omitempty"` // "3 days", "immediate"
	LessonLearned string    `json:"lesson_learned,omitempty"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
	Tags          []string  `json:"tags,omitempty"`
}
// #endregion engagement-memory
