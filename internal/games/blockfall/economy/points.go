// Package economy converts play events into point deltas and scores into
// ranks. Everything here is pure: callers own the state and decide when to
// apply a delta.
package economy

// EventType identifies what earned or cost points.
type EventType int

const (
	EventPlacement EventType = iota
	EventSoftDrop
	EventHardDrop
	EventAchievement
	EventRankBonus
	EventHoldCost
	EventClearRowCost
)

// String returns a short name for the event.
func (e EventType) String() string {
	switch e {
	case EventPlacement:
		return "placement"
	case EventSoftDrop:
		return "soft_drop"
	case EventHardDrop:
		return "hard_drop"
	case EventAchievement:
		return "achievement"
	case EventRankBonus:
		return "rank_bonus"
	case EventHoldCost:
		return "hold_cost"
	case EventClearRowCost:
		return "clear_row_cost"
	default:
		return "unknown"
	}
}

// Rules holds the tunable point values.
type Rules struct {
	Placement      int   // flat points per lock
	SoftDropRate   int   // points per soft-dropped row
	HardDropRate   int   // points per hard-dropped row
	AchievementMin int   // lower clamp for achievement bonuses
	AchievementMax int   // upper clamp for achievement bonuses
	HoldCost       int   // cost of one hold outside fever
	ClearRowCost   int   // cost of clearing the bottom row
	ExchangeCosts  []int // ascending exchange costs, indexed by exchange count
	RankScoreBonus int   // score added per rank gained
	RankPointBonus int   // points added per rank gained
}

// DefaultRules returns the stock point values.
func DefaultRules() Rules {
	return Rules{
		Placement:      1,
		SoftDropRate:   1,
		HardDropRate:   2,
		AchievementMin: 10,
		AchievementMax: 1000,
		HoldCost:       20,
		ClearRowCost:   150,
		ExchangeCosts:  []int{25, 50, 100, 200, 400},
		RankScoreBonus: 500,
		RankPointBonus: 100,
	}
}

// PointsFor returns the signed point delta for an event. base is the row
// count for drops, the raw amount for achievements and rank bonuses, and is
// ignored for placement and costs. multiplier scales drop points only; a
// multiplier below 1 is treated as 1.
func (r Rules) PointsFor(ev EventType, base, multiplier int) int {
	if multiplier < 1 {
		multiplier = 1
	}
	switch ev {
	case EventPlacement:
		return r.Placement
	case EventSoftDrop:
		return max(base, 0) * r.SoftDropRate * multiplier
	case EventHardDrop:
		return max(base, 0) * r.HardDropRate * multiplier
	case EventAchievement:
		return min(max(base, r.AchievementMin), r.AchievementMax)
	case EventRankBonus:
		return base
	case EventHoldCost:
		return -r.HoldCost
	case EventClearRowCost:
		return -r.ClearRowCost
	default:
		return 0
	}
}

// ExchangeCost returns the price of the next exchange after count previous
// exchanges. The schedule saturates at its last entry and is free in fever.
func (r Rules) ExchangeCost(count int, fever bool) int {
	if fever || len(r.ExchangeCosts) == 0 {
		return 0
	}
	if count < 0 {
		count = 0
	}
	if count >= len(r.ExchangeCosts) {
		return r.ExchangeCosts[len(r.ExchangeCosts)-1]
	}
	return r.ExchangeCosts[count]
}

// HoldPrice returns the price of a hold, free in fever.
func (r Rules) HoldPrice(fever bool) int {
	if fever {
		return 0
	}
	return r.HoldCost
}

// PointsState is the player's spendable balance.
type PointsState struct {
	TotalPoints   int
	ExchangeCount int
	LastDropBonus int
}

// CanAfford reports whether cost can be paid without going negative.
func (s PointsState) CanAfford(cost int) bool {
	return cost <= 0 || s.TotalPoints >= cost
}

// Spend deducts cost if affordable. Unaffordable costs leave the state
// untouched and return false.
func (s *PointsState) Spend(cost int) bool {
	if !s.CanAfford(cost) {
		return false
	}
	if cost > 0 {
		s.TotalPoints -= cost
	}
	return true
}

// Earn adds a non-negative delta. Negative deltas must go through Spend.
func (s *PointsState) Earn(delta int) {
	if delta > 0 {
		s.TotalPoints += delta
	}
}
