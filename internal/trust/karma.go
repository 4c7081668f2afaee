package trust

import (
	"github.com/karmatic-mx/trust-engine/internal/domain"
)

// karmaWeights penalise a 1-star review twice as hard as a 5-star one rewards.
var karmaWeights = map[domain.Rating]float64{
	1: -4,
	2: -2,
	3: 0,
	4: 1,
	5: 2,
}

// CalculateKarmaScore normalises the weighted rating distribution to [0,100].
// It returns nil when the distribution is empty.
func CalculateKarmaScore(dist domain.RatingDistribution) *float64 {
	total := dist.Total()
	if total == 0 {
		return nil
	}

	var weighted float64
	for r := domain.MinRating; r <= domain.MaxRating; r++ {
		weighted += float64(dist[r]) * karmaWeights[r]
	}

	theoreticalMax := float64(total) * karmaWeights[domain.MaxRating]
	theoreticalMin := float64(total) * karmaWeights[domain.MinRating]
	spread := theoreticalMax - theoreticalMin

	score := 50.0
	if spread != 0 {
		score = round2((weighted - theoreticalMin) / spread * 100)
	}
	return &score
}
