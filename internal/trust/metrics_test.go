package trust_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karmatic-mx/trust-engine/internal/domain"
	"github.com/karmatic-mx/trust-engine/internal/trust"
)

var fixedNow = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func newAnalyzer() *trust.Analyzer {
	return trust.NewAnalyzer(trust.WithClock(func() time.Time { return fixedNow }))
}

func daysAgo(n int) string {
	return fixedNow.Add(-time.Duration(n) * 24 * time.Hour).Format(time.RFC3339)
}

func review(rating domain.Rating, text, date string) domain.Review {
	return domain.Review{ID: text + date, Author: "Cliente", Rating: rating, Text: text, Date: date}
}

func responded(r domain.Review) domain.Review {
	r.Response = &domain.ReviewResponse{Text: "Gracias por su comentario", Date: r.Date}
	return r
}

func TestCalculateReviewMetrics_SinReviews(t *testing.T) {
	m := newAnalyzer().CalculateReviewMetrics(nil)

	assert.Equal(t, 0, m.ProcessedReviewsCount)
	assert.Nil(t, m.AverageRatingSample)
	assert.Nil(t, m.KarmaScoreSample)
	assert.Nil(t, m.NewestReviewDateSample)
	assert.Nil(t, m.OldestReviewDateSample)
	assert.Nil(t, m.ReviewFrequencySample)
	assert.Nil(t, m.AvgDaysBetweenReviews)
	assert.Nil(t, m.DaysSinceLastReview)
	assert.Nil(t, m.AvgReviewsPerMonth)
	assert.Equal(t, domain.FrequencyUndetermined, m.ReviewFrequencyCategory)
	assert.Equal(t, domain.RatingDistribution{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}, m.RatingDistributionSample)
}

func TestCalculateReviewMetrics_Basico(t *testing.T) {
	reviews := []domain.Review{
		review(5, "Excelente", daysAgo(1)),
		review(4, "Bien", daysAgo(2)),
		responded(review(1, "Malo", daysAgo(3))),
		review(2, "Regular", daysAgo(4)),
	}

	m := newAnalyzer().CalculateReviewMetrics(reviews)

	assert.Equal(t, 4, m.ProcessedReviewsCount)
	require.NotNil(t, m.AverageRatingSample)
	assert.Equal(t, 3.0, *m.AverageRatingSample)
	assert.Equal(t, domain.RatingDistribution{1: 1, 2: 1, 3: 0, 4: 1, 5: 1}, m.RatingDistributionSample)
	assert.Equal(t, 50, m.ResponseRatePercentage)

	require.NotNil(t, m.KarmaScoreSample)
	// weighted = -4 -2 +1 +2 = -3, min = -16, max = 8
	assert.InDelta(t, 54.17, *m.KarmaScoreSample, 0.001)

	require.NotNil(t, m.NewestReviewDateSample)
	assert.Equal(t, daysAgo(1), *m.NewestReviewDateSample)
	require.NotNil(t, m.OldestReviewDateSample)
	assert.Equal(t, daysAgo(4), *m.OldestReviewDateSample)
}

func TestCalculateReviewMetrics_RatingsInvalidos(t *testing.T) {
	reviews := []domain.Review{
		review(5, "", daysAgo(1)),
		review(0, "fue un fraude", daysAgo(2)),
		review(7, "", daysAgo(3)),
	}

	m := newAnalyzer().CalculateReviewMetrics(reviews)

	assert.Equal(t, 3, m.ProcessedReviewsCount)
	require.NotNil(t, m.AverageRatingSample)
	assert.Equal(t, 5.0, *m.AverageRatingSample)
	assert.Equal(t, 1, m.RatingDistributionSample.Total())
	assert.Equal(t, 1, trust.CountFraudKeywords(reviews), "el texto se escanea aunque el rating sea inválido")
}

func TestCalculateReviewMetrics_SoloRatingsInvalidos(t *testing.T) {
	m := newAnalyzer().CalculateReviewMetrics([]domain.Review{review(0, "", ""), review(9, "", "")})

	assert.Equal(t, 2, m.ProcessedReviewsCount)
	assert.Nil(t, m.AverageRatingSample)
	assert.Nil(t, m.KarmaScoreSample)
}

func TestResponseRate(t *testing.T) {
	cases := []struct {
		Name     string
		Reviews  []domain.Review
		Expected int
	}{
		{
			Name:     "Sin quejas siempre es 100",
			Reviews:  []domain.Review{review(5, "", ""), review(5, "", ""), review(5, "", "")},
			Expected: 100,
		},
		{
			Name: "Una de cuatro quejas respondida",
			Reviews: []domain.Review{
				responded(review(1, "", "")), review(1, "", ""), review(2, "", ""), review(2, "", ""),
			},
			Expected: 25,
		},
		{
			Name:     "Respuestas a reviews positivas no cuentan",
			Reviews:  []domain.Review{responded(review(5, "", "")), review(1, "", "")},
			Expected: 0,
		},
		{
			Name:     "Dos de tres quejas respondidas",
			Reviews:  []domain.Review{responded(review(1, "", "")), responded(review(2, "", "")), review(2, "", "")},
			Expected: 67,
		},
	}

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Expected, trust.ResponseRate(tc.Reviews))

			m := newAnalyzer().CalculateReviewMetrics(tc.Reviews)
			assert.Equal(t, tc.Expected, m.ResponseRatePercentage)
		})
	}
}

func TestCalculateKarmaScore(t *testing.T) {
	cases := []struct {
		Name     string
		Dist     domain.RatingDistribution
		Expected float64
	}{
		{"Todas de 5 estrellas", domain.RatingDistribution{1: 0, 2: 0, 3: 0, 4: 0, 5: 10}, 100},
		{"Todas de 1 estrella", domain.RatingDistribution{1: 10, 2: 0, 3: 0, 4: 0, 5: 0}, 0},
		{"Solo neutrales", domain.RatingDistribution{1: 0, 2: 0, 3: 2, 4: 0, 5: 0}, 66.67},
		{"Una de 1 y una de 5", domain.RatingDistribution{1: 1, 2: 0, 3: 0, 4: 0, 5: 1}, 50},
		{"Nueve de 5 y una de 1", domain.RatingDistribution{1: 1, 2: 0, 3: 0, 4: 0, 5: 9}, 90},
	}

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			score := trust.CalculateKarmaScore(tc.Dist)
			require.NotNil(t, score)
			assert.InDelta(t, tc.Expected, *score, 0.001)
			assert.GreaterOrEqual(t, *score, 0.0)
			assert.LessOrEqual(t, *score, 100.0)
		})
	}

	t.Run("Distribución vacía", func(t *testing.T) {
		assert.Nil(t, trust.CalculateKarmaScore(domain.NewRatingDistribution()))
	})
}

func TestCalculateReviewMetrics_Frecuencia(t *testing.T) {
	t.Run("Cinco reviews cada 10 días", func(t *testing.T) {
		reviews := []domain.Review{
			review(5, "", daysAgo(31)),
			review(5, "", daysAgo(41)),
			review(5, "", daysAgo(51)),
			review(5, "", daysAgo(61)),
			review(5, "", daysAgo(71)),
		}

		m := newAnalyzer().CalculateReviewMetrics(reviews)

		assert.Equal(t, domain.FrequencyActive, m.ReviewFrequencyCategory)
		require.NotNil(t, m.ReviewFrequencySample)
		assert.Equal(t, "Aprox. 1 cada 1 semana", *m.ReviewFrequencySample)
		require.NotNil(t, m.AvgDaysBetweenReviews)
		assert.Equal(t, 10, *m.AvgDaysBetweenReviews)
		require.NotNil(t, m.DaysSinceLastReview)
		assert.Equal(t, 31, *m.DaysSinceLastReview)
		require.NotNil(t, m.AvgReviewsPerMonth)
		assert.InDelta(t, 3.8, *m.AvgReviewsPerMonth, 0.011)
	})

	t.Run("Solo las 5 más recientes definen la categoría", func(t *testing.T) {
		reviews := []domain.Review{
			review(4, "", daysAgo(405)),
			review(4, "", daysAgo(1)),
			review(4, "", daysAgo(2)),
			review(4, "", daysAgo(3)),
			review(4, "", daysAgo(4)),
			review(4, "", daysAgo(5)),
		}

		m := newAnalyzer().CalculateReviewMetrics(reviews)

		assert.Equal(t, domain.FrequencyVeryActive, m.ReviewFrequencyCategory)
		require.NotNil(t, m.ReviewFrequencySample)
		assert.Equal(t, "Aprox. 1 cada día", *m.ReviewFrequencySample)
		require.NotNil(t, m.AvgDaysBetweenReviews)
		assert.Equal(t, 1, *m.AvgDaysBetweenReviews)

		// The monthly rate spans the whole history: 6 reviews over 404 days.
		require.NotNil(t, m.AvgReviewsPerMonth)
		assert.InDelta(t, 6/(404/30.44), *m.AvgReviewsPerMonth, 0.01)
		require.NotNil(t, m.OldestReviewDateSample)
		assert.Equal(t, daysAgo(405), *m.OldestReviewDateSample)
	})

	t.Run("Múltiples en el mismo día", func(t *testing.T) {
		same := daysAgo(2)
		m := newAnalyzer().CalculateReviewMetrics([]domain.Review{
			review(5, "", same), review(4, "", same), review(3, "", same),
		})

		assert.Equal(t, domain.FrequencyVeryActive, m.ReviewFrequencyCategory)
		require.NotNil(t, m.ReviewFrequencySample)
		assert.Equal(t, "Múltiples en el mismo día", *m.ReviewFrequencySample)
		require.NotNil(t, m.AvgDaysBetweenReviews)
		assert.Equal(t, 0, *m.AvgDaysBetweenReviews)
		require.NotNil(t, m.AvgReviewsPerMonth)
		assert.Equal(t, 3.0, *m.AvgReviewsPerMonth)
	})

	t.Run("Una sola review fechada", func(t *testing.T) {
		m := newAnalyzer().CalculateReviewMetrics([]domain.Review{
			review(5, "", daysAgo(10)), review(5, "", "no es fecha"), review(4, "", ""),
		})

		assert.Equal(t, domain.FrequencyUndetermined, m.ReviewFrequencyCategory)
		assert.Nil(t, m.ReviewFrequencySample)
		assert.Nil(t, m.AvgDaysBetweenReviews)
		require.NotNil(t, m.DaysSinceLastReview)
		assert.Equal(t, 10, *m.DaysSinceLastReview)
		require.NotNil(t, m.AvgReviewsPerMonth)
		assert.Equal(t, 1.0, *m.AvgReviewsPerMonth)
	})

	t.Run("Fechas inválidas no rompen el cálculo", func(t *testing.T) {
		m := newAnalyzer().CalculateReviewMetrics([]domain.Review{
			review(5, "", "ayer"), review(4, "", ""), review(3, "", "fecha desconocida"),
		})

		assert.Equal(t, 3, m.ProcessedReviewsCount)
		assert.Equal(t, domain.FrequencyUndetermined, m.ReviewFrequencyCategory)
		assert.Nil(t, m.DaysSinceLastReview)
		assert.Nil(t, m.AvgReviewsPerMonth)
		assert.Nil(t, m.NewestReviewDateSample)
	})

	t.Run("Fechas que no son ISO se descartan", func(t *testing.T) {
		m := newAnalyzer().CalculateReviewMetrics([]domain.Review{
			review(5, "", daysAgo(1)), review(5, "", daysAgo(2)), review(4, "", daysAgo(3)),
			review(5, "", "1.1"), review(5, "", "2024"), review(1, "", "1332151919"),
			review(2, "", "03/04/2024"), review(3, "", "0001-01-01T00:00:00Z"),
		})

		assert.Equal(t, 8, m.ProcessedReviewsCount)
		assert.Equal(t, domain.FrequencyVeryActive, m.ReviewFrequencyCategory)
		require.NotNil(t, m.ReviewFrequencySample)
		assert.Equal(t, "Aprox. 1 cada día", *m.ReviewFrequencySample)
		require.NotNil(t, m.OldestReviewDateSample)
		assert.Equal(t, daysAgo(3), *m.OldestReviewDateSample)
		require.NotNil(t, m.DaysSinceLastReview)
		assert.Equal(t, 1, *m.DaysSinceLastReview)
	})

	t.Run("Fechas en el futuro lejano se descartan", func(t *testing.T) {
		m := newAnalyzer().CalculateReviewMetrics([]domain.Review{
			review(5, "", daysAgo(10)), review(5, "", daysAgo(-400)),
		})

		require.NotNil(t, m.NewestReviewDateSample)
		assert.Equal(t, daysAgo(10), *m.NewestReviewDateSample)
		assert.Equal(t, domain.FrequencyUndetermined, m.ReviewFrequencyCategory)
	})
}

func TestCalculateReviewMetrics_Deterministico(t *testing.T) {
	reviews := []domain.Review{
		review(5, "Muy honesto", "2024-01-10T10:00:00Z"),
		review(1, "Estafa", "2024-02-10T10:00:00Z"),
		review(3, "", "2024-03-10"),
	}

	a := trust.NewAnalyzer()
	first := a.CalculateReviewMetrics(reviews)
	second := a.CalculateReviewMetrics(reviews)

	assert.Equal(t, first.RatingDistributionSample, second.RatingDistributionSample)
	assert.Equal(t, first.KarmaScoreSample, second.KarmaScoreSample)
	assert.Equal(t, first.ReviewFrequencySample, second.ReviewFrequencySample)
	assert.Equal(t, first.AvgReviewsPerMonth, second.AvgReviewsPerMonth)
}
