package rebalance

import (
	"strconv"

	"github.com/shopspring/decimal"

	"stockflow/internal/models"
)

// Config holds the tenant-level planning thresholds. Unset or invalid
// constraint values fall back to the engine defaults.
type Config struct {
	MinCoverWeeks        float64
	LateralEnabled       bool
	MinLateralNetBenefit decimal.Decimal
	ThresholdHighWeeks   float64
	ThresholdLowWeeks    float64
}

// DefaultConfig returns the engine defaults applied when a tenant has no
// active constraint for a threshold.
func DefaultConfig() Config {
	return Config{
		MinCoverWeeks:        2,
		LateralEnabled:       true,
		MinLateralNetBenefit: decimal.NewFromInt(500000),
		ThresholdHighWeeks:   6,
		ThresholdLowWeeks:    1,
	}
}

// ConfigFromConstraints decodes active tenant constraints into a typed
// config. Inactive rows and unparseable values are ignored.
func ConfigFromConstraints(constraints []*models.Constraint) Config {
	cfg := DefaultConfig()
	for _, c := range constraints {
		if !c.Active {
			continue
		}
		switch c.Name {
		case models.ConstraintMinCoverWeeks:
			if v, err := strconv.ParseFloat(c.Value, 64); err == nil && v > 0 {
				cfg.MinCoverWeeks = v
			}
		case models.ConstraintLateralEnabled:
			if v, err := strconv.ParseBool(c.Value); err == nil {
				cfg.LateralEnabled = v
			}
		case models.ConstraintMinLateralNetBenefit:
			if v, err := decimal.NewFromString(c.Value); err == nil {
				cfg.MinLateralNetBenefit = v
			}
		case models.ConstraintThresholdHighWeeks:
			if v, err := strconv.ParseFloat(c.Value, 64); err == nil && v > 0 {
				cfg.ThresholdHighWeeks = v
			}
		case models.ConstraintThresholdLowWeeks:
			if v, err := strconv.ParseFloat(c.Value, 64); err == nil && v > 0 {
				cfg.ThresholdLowWeeks = v
			}
		}
	}
	return cfg
}
