package rebalance

import "stockflow/internal/models"

// ZeroVelocityCover is the sentinel returned for a stocked item with no
// demand. It keeps the math finite and ranks the position as "do not touch".
const ZeroVelocityCover = 99.0

// WeeksOfCover estimates how many weeks the given stock lasts at the given
// daily sales velocity. Zero velocity with stock on hand returns the sentinel;
// zero velocity with nothing on hand returns 0, maximal urgency, so a fully
// stocked-out position still surfaces in shortage lists.
func WeeksOfCover(onHand int, dailyVelocity float64) float64 {
	if dailyVelocity > 0 {
		return float64(onHand) / (dailyVelocity * 7)
	}
	if onHand > 0 {
		return ZeroVelocityCover
	}
	return 0
}

// PriorityForCover maps a destination's pre-transfer cover to a tier.
func PriorityForCover(coverWeeks float64) string {
	switch {
	case coverWeeks < 0.5:
		return models.PriorityP1
	case coverWeeks < 1:
		return models.PriorityP2
	default:
		return models.PriorityP3
	}
}
