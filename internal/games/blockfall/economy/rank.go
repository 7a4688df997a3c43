package economy

import (
	"fmt"
	"sort"
)

// Rank is one step of the ladder.
type Rank struct {
	Index     int
	Name      string
	Threshold int
}

// Ladder is a list of ranks sorted by strictly increasing threshold.
type Ladder []Rank

// LadderSize is the number of ranks in a standard ladder.
const LadderSize = 14

// DefaultLadder returns the stock 14-rank ladder.
func DefaultLadder() Ladder {
	return NewLadder(
		[]string{
			"Novice", "Apprentice", "Stacker", "Builder", "Architect",
			"Engineer", "Tactician", "Strategist", "Expert", "Master",
			"Grandmaster", "Legend", "Mythic", "Transcendent",
		},
		[]int{
			0, 1000, 3000, 6000, 10000,
			15000, 25000, 40000, 60000, 85000,
			120000, 160000, 220000, 300000,
		},
	)
}

// NewLadder pairs names with thresholds, assigning indices in order.
// Extra names or thresholds are ignored.
func NewLadder(names []string, thresholds []int) Ladder {
	n := min(len(names), len(thresholds))
	l := make(Ladder, n)
	for i := 0; i < n; i++ {
		l[i] = Rank{Index: i, Name: names[i], Threshold: thresholds[i]}
	}
	return l
}

// Validate checks the ladder shape: LadderSize entries, indices in order,
// first threshold 0 and thresholds strictly increasing.
func (l Ladder) Validate() error {
	if len(l) != LadderSize {
		return fmt.Errorf("economy: ladder has %d ranks, want %d", len(l), LadderSize)
	}
	for i, r := range l {
		if r.Index != i {
			return fmt.Errorf("economy: rank %q has index %d, want %d", r.Name, r.Index, i)
		}
		if i == 0 {
			if r.Threshold != 0 {
				return fmt.Errorf("economy: first rank threshold is %d, want 0", r.Threshold)
			}
			continue
		}
		if r.Threshold <= l[i-1].Threshold {
			return fmt.Errorf("economy: rank %q threshold %d not above %d", r.Name, r.Threshold, l[i-1].Threshold)
		}
	}
	return nil
}

// ForScore returns the highest rank whose threshold is at or below score.
func (l Ladder) ForScore(score int) Rank {
	if len(l) == 0 {
		return Rank{}
	}
	// First rank whose threshold exceeds score, minus one.
	i := sort.Search(len(l), func(i int) bool {
		return l[i].Threshold > score
	})
	if i == 0 {
		return l[0]
	}
	return l[i-1]
}

// IsTop reports whether r is the last rank of the ladder.
func (l Ladder) IsTop(r Rank) bool {
	return len(l) > 0 && r.Index == len(l)-1
}

// Progress returns how far score is between its rank and the next one, as a
// percentage in 0..100. The top rank always reports 100.
func (l Ladder) Progress(score int) int {
	cur := l.ForScore(score)
	if len(l) == 0 || l.IsTop(cur) {
		return 100
	}
	next := l[cur.Index+1]
	span := next.Threshold - cur.Threshold
	if span <= 0 {
		return 100
	}
	pct := (score - cur.Threshold) * 100 / span
	return min(max(pct, 0), 100)
}

// Promotion describes a rank change caused by a score change.
type Promotion struct {
	From   Rank
	To     Rank
	Jumped int // ranks gained, may exceed 1
}

// CheckPromotion compares the ranks of oldScore and newScore. The bool is
// false when the rank did not go up.
func (l Ladder) CheckPromotion(oldScore, newScore int) (Promotion, bool) {
	from := l.ForScore(oldScore)
	to := l.ForScore(newScore)
	if to.Index <= from.Index {
		return Promotion{}, false
	}
	return Promotion{From: from, To: to, Jumped: to.Index - from.Index}, true
}

// Bonus returns the score and point bonus earned by a promotion.
func (r Rules) Bonus(p Promotion) (score, points int) {
	return r.RankScoreBonus * p.Jumped, r.PointsFor(EventRankBonus, r.RankPointBonus*p.Jumped, 1)
}
