package catalog

import (
	"math"
	"sort"

	"github.com/wenhua/meal-advisor/internal/domain/targets"
)

// Neutral scores used when the history carries no ranking signal.
const (
	neutralScore      = 1
	saturatedScore    = 50
	scoreContribution = 100
)

// Scorer ranks catalog items by how well they complement what the user has
// already eaten relative to a fixed daily macro budget.
type Scorer struct {
	targets targets.DailyTargets
}

// NewScorer builds a scorer over the given macro targets. Callers normally
// pass targets.ReferenceTargets().
func NewScorer(t targets.DailyTargets) *Scorer {
	return &Scorer{targets: t}
}

// Score maps catalog index to a complement score. With no consumption history
// every item receives the neutral constant 1. When the daily budget is fully
// consumed every item receives 50. Otherwise an item scores the share of the
// remaining budget it can fill, scaled to 100.
func (s *Scorer) Score(items []FoodItem, consumed []targets.Consumed) map[int]float64 {
	scores := make(map[int]float64, len(items))
	if len(consumed) == 0 {
		for idx := range items {
			scores[idx] = neutralScore
		}
		return scores
	}

	remaining := s.remaining(consumed)
	totalRemaining := remaining.Protein + remaining.Carbs + remaining.Fat

	for idx, item := range items {
		if totalRemaining == 0 {
			scores[idx] = saturatedScore
			continue
		}
		var score float64
		for _, pair := range []struct{ have, need float64 }{
			{item.Protein, remaining.Protein},
			{item.Carbs, remaining.Carbs},
			{item.Fat, remaining.Fat},
		} {
			if pair.need > 0 {
				score += math.Min(pair.have, pair.need) / totalRemaining * scoreContribution
			}
		}
		scores[idx] = score
	}
	return scores
}

// Rank returns the items ordered by descending score. Ties keep catalog
// order, which decides what surfaces in the capped top-3 display.
func (s *Scorer) Rank(items []FoodItem, consumed []targets.Consumed) []FoodItem {
	scores := s.Score(items, consumed)

	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	ranked := make([]FoodItem, 0, len(items))
	for _, idx := range order {
		ranked = append(ranked, items[idx])
	}
	return ranked
}

func (s *Scorer) remaining(consumed []targets.Consumed) targets.Consumed {
	var total targets.Consumed
	for _, c := range consumed {
		total.Protein += c.Protein
		total.Carbs += c.Carbs
		total.Fat += c.Fat
	}
	return targets.Consumed{
		Protein: math.Max(0, s.targets.Protein-total.Protein),
		Carbs:   math.Max(0, s.targets.Carbs-total.Carbs),
		Fat:     math.Max(0, s.targets.Fat-total.Fat),
	}
}
