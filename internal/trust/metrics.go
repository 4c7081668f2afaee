package trust

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/karmatic-mx/trust-engine/internal/domain"
)

type datedReview struct {
	review domain.Review
	at     time.Time
}

const (
	minReviewYear = 1990
	maxClockSkew  = 48 * time.Hour
)

// isoDatePrefix limits dateparse to ISO-8601 input (YYYY-MM-DD...).
var isoDatePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// parseReviewDate parses an ISO-8601 date in UTC. Dates before 1990 or more
// than maxClockSkew past now are rejected.
func parseReviewDate(s string, now time.Time) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if !isoDatePrefix.MatchString(s) {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	t = t.UTC()
	if t.Year() < minReviewYear || t.After(now.Add(maxClockSkew)) {
		return time.Time{}, false
	}
	return t, true
}

// datedNewestFirst keeps the reviews with a plausible date, newest first.
func datedNewestFirst(reviews []domain.Review, now time.Time) []datedReview {
	dated := make([]datedReview, 0, len(reviews))
	for _, r := range reviews {
		if at, ok := parseReviewDate(r.Date, now); ok {
			dated = append(dated, datedReview{review: r, at: at})
		}
	}
	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].at.After(dated[j].at)
	})
	return dated
}

// RatingDistribution counts valid ratings per star value.
func RatingDistribution(reviews []domain.Review) domain.RatingDistribution {
	dist := domain.NewRatingDistribution()
	for _, r := range reviews {
		if r.Rating.Valid() {
			dist[r.Rating]++
		}
	}
	return dist
}

// ResponseRate is the share of complaints (1-2 stars) that got an owner reply.
// With no complaints it is 100.
func ResponseRate(reviews []domain.Review) int {
	complaints, responded := 0, 0
	for _, r := range reviews {
		if !r.IsComplaint() {
			continue
		}
		complaints++
		if r.HasResponse() {
			responded++
		}
	}
	if complaints == 0 {
		return 100
	}
	return int(math.Round(100 * float64(responded) / float64(complaints)))
}

// CalculateReviewMetrics builds the statistical snapshot for a review list.
func (a *Analyzer) CalculateReviewMetrics(reviews []domain.Review) domain.ReviewMetrics {
	m := domain.ReviewMetrics{
		ProcessedReviewsCount:    len(reviews),
		RatingDistributionSample: domain.NewRatingDistribution(),
		ReviewFrequencyCategory:  domain.FrequencyUndetermined,
	}
	if len(reviews) == 0 {
		return m
	}

	sum, rated := 0, 0
	for _, r := range reviews {
		if !r.Rating.Valid() {
			continue
		}
		sum += int(r.Rating)
		rated++
		m.RatingDistributionSample[r.Rating]++
	}
	if rated > 0 {
		avg := round2(float64(sum) / float64(rated))
		m.AverageRatingSample = &avg
	}

	m.KarmaScoreSample = CalculateKarmaScore(m.RatingDistributionSample)
	m.ResponseRatePercentage = ResponseRate(reviews)

	now := a.now()
	dated := datedNewestFirst(reviews, now)
	if len(dated) == 0 {
		return m
	}

	newest, oldest := dated[0].at, dated[len(dated)-1].at
	m.NewestReviewDateSample = ptr(newest.Format(time.RFC3339))
	m.OldestReviewDateSample = ptr(oldest.Format(time.RFC3339))

	sinceLast := int(math.Round(days(now.Sub(newest))))
	if sinceLast < 0 {
		sinceLast = 0
	}
	m.DaysSinceLastReview = &sinceLast

	if len(dated) == 1 {
		m.AvgReviewsPerMonth = ptr(1.0)
	} else {
		months := math.Max(days(newest.Sub(oldest))/daysPerMonth, 1)
		m.AvgReviewsPerMonth = ptr(round2(float64(m.ProcessedReviewsCount) / months))
	}

	if f, ok := sampleFrequency(dated); ok {
		m.ReviewFrequencyCategory = f.category
		m.ReviewFrequencySample = ptr(f.description)
		m.AvgDaysBetweenReviews = ptr(f.avgDays)
	}

	return m
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func ptr[T any](v T) *T {
	return &v
}
