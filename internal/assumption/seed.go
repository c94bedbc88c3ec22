package assumption

import "github.com/google/uuid"

// #region helpers
func numeric(v float64) *float64 { return &v }

func numericRange(lo, hi float64) *[2]float64 { return &[2]float64{lo, hi} }
// #endregion helpers

// #region seed-defaults
// SeedDefaults returns the initial benchmark defaults: import shares,
// employment coefficients, a phasing profile and a GDP deflator. They give
// new engagements sensible starting points before any calibration exists.
func SeedDefaults() []Default {
	return []Default{
		{
			ID:           uuid.New().String(),
			Kind:         KindImportShare,
			SectorCode:   "F",
			Name:         "Construction import share",
			ValueType:    ValueNumeric,
			NumericValue: numeric(0.35),
			NumericRange: numericRange(0.25, 0.50),
			Unit:         "ratio",
			Rationale:    "KAPSARC IO table import ratios for ISIC Section F",
			Source:       "KAPSARC IO import ratios",
			Confidence:   "medium",
		},
		{
			ID:           uuid.New().String(),
			Kind:         KindImportShare,
			SectorCode:   "C",
			Name:         "Manufacturing import share",
			ValueType:    ValueNumeric,
			NumericValue: numeric(0.45),
			NumericRange: numericRange(0.30, 0.60),
			Unit:         "ratio",
			Rationale:    "KAPSARC IO table import ratios for ISIC Section C",
			Source:       "KAPSARC IO import ratios",
			Confidence:   "medium",
		},
		{
			ID:           uuid.New().String(),
			Kind:         KindImportShare,
			Name:         "Economy-wide import share",
			ValueType:    ValueNumeric,
			NumericValue: numeric(0.30),
			NumericRange: numericRange(0.20, 0.45),
			Unit:         "ratio",
			Rationale:    "World Development Indicators trade data for Saudi Arabia",
			Source:       "WDI trade data",
			Confidence:   "medium",
		},
		{
			ID:           uuid.New().String(),
			Kind:         KindJobsCoeff,
			SectorCode:   "F",
			Name:         "Construction employment coefficient",
			ValueType:    ValueNumeric,
			NumericValue: numeric(18.5),
			NumericRange: numericRange(12.0, 25.0),
			Unit:         "jobs_per_million_SAR",
			Rationale:    "D-4 employment coefficients for ISIC Section F",
			Source:       "D-4 employment coefficients",
			Confidence:   "medium",
		},
		{
			ID:           uuid.New().String(),
			Kind:         KindJobsCoeff,
			SectorCode:   "K",
			Name:         "Finance employment coefficient",
			ValueType:    ValueNumeric,
			NumericValue: numeric(5.2),
			NumericRange: numericRange(3.0, 8.0),
			Unit:         "jobs_per_million_SAR",
			Rationale:    "D-4 employment coefficients for ISIC Section K",
			Source:       "D-4 employment coefficients",
			Confidence:   "medium",
		},
		{
			ID:            uuid.New().String(),
			Kind:          KindPhasing,
			Name:          "Default phasing profile",
			ValueType:     ValueCategorical,
			TextValue:     "even",
			AllowedValues: []string{"front", "even", "back"},
			Unit:          "profile",
			Rationale:     "Expert default: even distribution across project phases",
			Source:        "Expert",
			Confidence:    "medium",
		},
		{
			ID:           uuid.New().String(),
			Kind:         KindDeflator,
			Name:         "Default GDP deflator",
			ValueType:    ValueNumeric,
			NumericValue: numeric(0.02),
			NumericRange: numericRange(0.01, 0.04),
			Unit:         "annual_rate",
			Rationale:    "SAMA inflation data for Saudi Arabia",
			Source:       "SAMA inflation data",
			Confidence:   "medium",
		},
	}
}
// #endregion seed-defaults
