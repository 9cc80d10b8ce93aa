package rebalance

import "stockflow/internal/models"

// Engine composes the two planning phases over a single snapshot. One
// invocation is a single-threaded batch computation: the push phase runs
// first and its tentative allocations are handed to the lateral phase through
// the adjusted ledger.
type Engine struct {
	push        *PushPlanner
	lateral     *LateralPlanner
	recommender *AllocationRecommender
}

func NewEngine() *Engine {
	return NewEngineWithEconomics(DefaultEconomics())
}

func NewEngineWithEconomics(econ Economics) *Engine {
	return &Engine{
		push:        NewPushPlanner(econ),
		lateral:     NewLateralPlanner(econ),
		recommender: NewAllocationRecommender(econ),
	}
}

// PlanResult is the outcome of a rebalance plan before persistence.
type PlanResult struct {
	Suggestions []*models.TransferSuggestion
	Totals      models.RunTotals
}

// Plan runs push then lateral and tallies per-phase totals.
func (e *Engine) Plan(snap *Snapshot, cfg Config) *PlanResult {
	pushSuggestions, ledger := e.push.Plan(snap, cfg)
	lateralSuggestions := e.lateral.Plan(snap, cfg, ledger)

	result := &PlanResult{
		Suggestions: append(pushSuggestions, lateralSuggestions...),
	}
	result.Totals.PushSuggestions = len(pushSuggestions)
	result.Totals.LateralSuggestions = len(lateralSuggestions)
	result.Totals.TotalSuggestions = len(result.Suggestions)
	for _, s := range pushSuggestions {
		result.Totals.PushUnits += s.Quantity
	}
	for _, s := range lateralSuggestions {
		result.Totals.LateralUnits += s.Quantity
	}
	result.Totals.TotalUnits = result.Totals.PushUnits + result.Totals.LateralUnits
	return result
}

// Recommend runs the advisory single-phase recommender.
func (e *Engine) Recommend(snap *Snapshot) []*models.AllocationRecommendation {
	return e.recommender.Recommend(snap)
}
