package publication

import (
	"fmt"
	"sort"
	"strings"

	"github.com/albarami/ImpactOS-sub000/internal/mapping"
)

// #region gate
// QualityGate holds the checks a mapping draft must pass before publication.
// Each check can be disabled individually. Assumption drafts are never
// gated: their defaults change through calibration, not override mining.
type QualityGate struct {
	RequireStewardReview bool
	DuplicateCheck       bool
	ConflictCheck        bool
	MinOverrideFrequency int
}

// DefaultQualityGate returns a gate with every check enabled.
func DefaultQualityGate() QualityGate {
	return QualityGate{
		RequireStewardReview: true,
		DuplicateCheck:       true,
		ConflictCheck:        true,
		MinOverrideFrequency: 2,
	}
}
// #endregion gate

// #region validate
// ValidateMappingDraft returns the gate failure messages for a draft. An
// empty result means every enabled gate passed. Failures are data for the
// orchestrator to act on, not errors.
func (g QualityGate) ValidateMappingDraft(draft mapping.Draft, stewardApproved bool) []string {
	var failures []string

	if g.RequireStewardReview && !stewardApproved {
		failures = append(failures, "Steward review required but not approved.")
	}

	if g.DuplicateCheck {
		type key struct{ pattern, sector string }
		counts := make(map[key]int)
		var order []key
		for _, e := range draft.Entries {
			k := key{e.Pattern, e.SectorCode}
			if counts[k] == 0 {
				order = append(order, k)
			}
			counts[k]++
		}
		for _, k := range order {
			if counts[k] > 1 {
				failures = append(failures, fmt.Sprintf(
					"Duplicate entry detected: pattern='%s', sector_code='%s' appears %d times.",
					k.pattern, k.sector, counts[k],
				))
			}
		}
	}

	if g.ConflictCheck {
		sectors := make(map[string]map[string]bool)
		var order []string
		for _, e := range draft.Entries {
			if sectors[e.Pattern] == nil {
				sectors[e.Pattern] = make(map[string]bool)
				order = append(order, e.Pattern)
			}
			sectors[e.Pattern][e.SectorCode] = true
		}
		for _, pattern := range order {
			if len(sectors[pattern]) > 1 {
				codes := make([]string, 0, len(sectors[pattern]))
				for code := range sectors[pattern] {
					codes = append(codes, code)
				}
				sort.Strings(codes)
				failures = append(failures, fmt.Sprintf(
					"Conflicting entries for pattern='%s': mapped to sectors [%s].",
					pattern, strings.Join(codes, ", "),
				))
			}
		}
	}

	return failures
}
// #endregion validate
