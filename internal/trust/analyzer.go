// Package trust turns the raw reviews of an agency into a deterministic trust
// score, a trust level and explainable red/green flags.
//
// Everything here is pure computation over the input slice: an Analyzer can be
// shared between goroutines. The only time dependency is daysSinceLastReview,
// which reads the injected clock.
package trust

import (
	"fmt"
	"math"
	"time"

	"github.com/karmatic-mx/trust-engine/internal/domain"
)

const (
	// Weights of the base trust score, in points out of 100.
	weightPositive = 40.0
	weightFraud    = 30.0
	weightResponse = 20.0
	weightPattern  = 10.0

	fraudPenaltyPerMention = 3.0

	// karmaBlend is the share of the final score taken from the karma score.
	karmaBlend = 0.2

	// Below this many reviews the rating pattern is not judged.
	minReviewsForPattern = 10
)

// Analyzer computes review metrics and trust analyses.
type Analyzer struct {
	now func() time.Time
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithClock overrides the clock used for daysSinceLastReview.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		a.now = now
	}
}

// NewAnalyzer creates an analyzer using the wall clock.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Result bundles the verdict with the metrics it was computed from.
type Result struct {
	TrustAnalysis domain.TrustAnalysis `json:"trustAnalysis"`
	ReviewMetrics domain.ReviewMetrics `json:"reviewMetrics"`
}

// AnalyzeTrustWithMetrics computes the review metrics first and blends the
// karma score into the trust score.
func (a *Analyzer) AnalyzeTrustWithMetrics(reviews []domain.Review) Result {
	metrics := a.CalculateReviewMetrics(reviews)

	// An empty set has no complaints to answer, so it keeps the neutral 100
	// while its metrics report 0.
	responseRate := metrics.ResponseRatePercentage
	if metrics.ProcessedReviewsCount == 0 {
		responseRate = 100
	}

	signals := domain.TrustMetrics{
		PositiveReviewsPercent: PositiveReviewsPercent(reviews),
		FraudKeywordsCount:     CountFraudKeywords(reviews),
		ResponseRate:           responseRate,
		RatingPattern:          DetectRatingPattern(reviews),
	}
	trustKeywordsCount := CountTrustKeywords(reviews)

	score := BlendKarma(CalculateTrustScore(signals), metrics.KarmaScoreSample)

	return Result{
		TrustAnalysis: domain.TrustAnalysis{
			TrustScore: score,
			TrustLevel: LevelFor(score),
			Metrics:    signals,
			RedFlags:   redFlags(signals, metrics),
			GreenFlags: greenFlags(signals, trustKeywordsCount, metrics),
		},
		ReviewMetrics: metrics,
	}
}

// PositiveReviewsPercent is the share of 4 and 5 star reviews over all reviews.
func PositiveReviewsPercent(reviews []domain.Review) int {
	if len(reviews) == 0 {
		return 0
	}
	positive := 0
	for _, r := range reviews {
		if r.Rating.Valid() && r.Rating >= 4 {
			positive++
		}
	}
	return int(math.Round(100 * float64(positive) / float64(len(reviews))))
}

// DetectRatingPattern flags review sets dominated by 5 stars with almost no
// 2-4 star reviews, the usual signature of bought reviews.
func DetectRatingPattern(reviews []domain.Review) domain.RatingPattern {
	total := len(reviews)
	if total < minReviewsForPattern {
		return domain.PatternNatural
	}

	dist := RatingDistribution(reviews)
	fiveStarPercent := 100 * float64(dist[5]) / float64(total)
	middlePercent := 100 * float64(dist[2]+dist[3]+dist[4]) / float64(total)

	if fiveStarPercent > 80 && middlePercent < 10 {
		return domain.PatternSuspicious
	}
	return domain.PatternNatural
}

// CalculateTrustScore is the weighted base score, clamped to [0,100].
func CalculateTrustScore(m domain.TrustMetrics) int {
	score := float64(m.PositiveReviewsPercent) / 100 * weightPositive
	score += weightFraud - math.Min(float64(m.FraudKeywordsCount)*fraudPenaltyPerMention, weightFraud)
	score += float64(m.ResponseRate) / 100 * weightResponse
	if m.RatingPattern == domain.PatternNatural {
		score += weightPattern
	}

	score = math.Max(0, math.Min(100, score))
	return int(math.Round(score))
}

// BlendKarma applies the karma score as a secondary correction.
// A nil karma score leaves the base score untouched.
func BlendKarma(base int, karma *float64) int {
	if karma == nil {
		return base
	}
	return int(math.Round(float64(base)*(1-karmaBlend) + *karma*karmaBlend))
}

// LevelFor buckets a trust score. Lower bounds are inclusive.
func LevelFor(score int) domain.TrustLevel {
	switch {
	case score >= 85:
		return domain.TrustVeryHigh
	case score >= 70:
		return domain.TrustHigh
	case score >= 55:
		return domain.TrustMedium
	case score >= 40:
		return domain.TrustLow
	default:
		return domain.TrustVeryLow
	}
}

func redFlags(s domain.TrustMetrics, m domain.ReviewMetrics) []string {
	flags := []string{}

	if s.FraudKeywordsCount > 5 {
		flags = append(flags, fmt.Sprintf("%d menciones de fraude o estafa detectadas", s.FraudKeywordsCount))
	}
	if s.ResponseRate < 30 {
		flags = append(flags, fmt.Sprintf("Solo %d%% de quejas reciben respuesta", s.ResponseRate))
	}
	if s.RatingPattern == domain.PatternSuspicious {
		flags = append(flags, "Patrón de calificaciones sospechoso: demasiadas reviews de 5 estrellas sin calificaciones intermedias")
	}
	if s.PositiveReviewsPercent < 40 {
		flags = append(flags, fmt.Sprintf("Solo %d%% de reviews son positivas", s.PositiveReviewsPercent))
	}
	if m.ReviewFrequencyCategory == domain.FrequencyInactive && m.DaysSinceLastReview != nil && *m.DaysSinceLastReview > 180 {
		flags = append(flags, fmt.Sprintf("Agencia inactiva: %d días sin reviews nuevas", *m.DaysSinceLastReview))
	}

	return flags
}

func greenFlags(s domain.TrustMetrics, trustKeywordsCount int, m domain.ReviewMetrics) []string {
	flags := []string{}

	if trustKeywordsCount > 10 {
		flags = append(flags, fmt.Sprintf("%d menciones de honestidad y buen servicio", trustKeywordsCount))
	}
	if s.ResponseRate > 70 {
		flags = append(flags, fmt.Sprintf("Responde al %d%% de las quejas", s.ResponseRate))
	}
	if s.RatingPattern == domain.PatternNatural {
		flags = append(flags, "Distribución de calificaciones natural")
	}
	if s.PositiveReviewsPercent > 80 {
		flags = append(flags, fmt.Sprintf("%d%% de reviews positivas", s.PositiveReviewsPercent))
	}
	if m.ReviewFrequencyCategory == domain.FrequencyVeryActive && m.AvgReviewsPerMonth != nil && *m.AvgReviewsPerMonth > 10 {
		flags = append(flags, fmt.Sprintf("Agencia muy activa: %.1f reviews por mes", *m.AvgReviewsPerMonth))
	}

	return flags
}
