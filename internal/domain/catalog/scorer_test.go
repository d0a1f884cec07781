package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wenhua/meal-advisor/internal/domain/targets"
)

func TestScoreNoHistoryIsNeutral(t *testing.T) {
	scorer := NewScorer(targets.ReferenceTargets())
	scores := scorer.Score(testCatalog(), nil)
	require.Len(t, scores, 4)
	for idx, score := range scores {
		require.Equal(t, 1.0, score, "item %d", idx)
	}
}

func TestScoreSaturatedBudgetIsFifty(t *testing.T) {
	scorer := NewScorer(targets.ReferenceTargets())
	consumed := []targets.Consumed{{Protein: 60, Carbs: 300, Fat: 70}}
	scores := scorer.Score(testCatalog(), consumed)
	for _, score := range scores {
		require.Equal(t, 50.0, score)
	}
}

func TestScoreRewardsComplementingItems(t *testing.T) {
	scorer := NewScorer(targets.ReferenceTargets())
	// 40g protein, 235g carbs, 45g fat remaining; total 320.
	consumed := []targets.Consumed{{Protein: 10, Carbs: 40, Fat: 10}}

	items := []FoodItem{
		{Name: "Lean steak", Protein: 30, Carbs: 0, Fat: 10},
		{Name: "Plain rice", Protein: 4, Carbs: 50, Fat: 1},
	}
	scores := scorer.Score(items, consumed)

	// min(30,40)/320*100 + min(10,45)/320*100
	require.InDelta(t, (30.0+10.0)/320*100, scores[0], 1e-9)
	require.InDelta(t, (4.0+50.0+1.0)/320*100, scores[1], 1e-9)
	require.Greater(t, scores[1], scores[0])
}

func TestScoreCapsContributionAtRemaining(t *testing.T) {
	scorer := NewScorer(targets.DailyTargets{Protein: 10, Carbs: 10, Fat: 10})
	consumed := []targets.Consumed{{Protein: 5, Carbs: 5, Fat: 5}}
	// 5g of each remaining, total 15. A huge item can only fill what is left.
	items := []FoodItem{{Name: "Feast platter", Protein: 100, Carbs: 100, Fat: 100}}
	scores := scorer.Score(items, consumed)
	require.InDelta(t, 100.0, scores[0], 1e-9)
}

func TestRankDescendingWithStableTies(t *testing.T) {
	scorer := NewScorer(targets.ReferenceTargets())
	consumed := []targets.Consumed{{Protein: 10, Carbs: 40, Fat: 10}}

	items := []FoodItem{
		{Name: "First tie", Protein: 10, Carbs: 10, Fat: 10},
		{Name: "Winner", Protein: 40, Carbs: 100, Fat: 30},
		{Name: "Second tie", Protein: 10, Carbs: 10, Fat: 10},
	}
	ranked := scorer.Rank(items, consumed)
	require.Equal(t, "Winner", ranked[0].Name)
	// Equal scores keep catalog order.
	require.Equal(t, "First tie", ranked[1].Name)
	require.Equal(t, "Second tie", ranked[2].Name)
}

func TestRankNoHistoryKeepsCatalogOrder(t *testing.T) {
	scorer := NewScorer(targets.ReferenceTargets())
	items := testCatalog()
	ranked := scorer.Rank(items, nil)
	require.Equal(t, items, ranked)
}
