package domain

// TrustLevel is the categorical bucket derived from a trust score.
type TrustLevel string

const (
	TrustVeryHigh TrustLevel = "muy_alta" // Score 85-100
	TrustHigh     TrustLevel = "alta"     // Score 70-84
	TrustMedium   TrustLevel = "media"    // Score 55-69
	TrustLow      TrustLevel = "baja"     // Score 40-54
	TrustVeryLow  TrustLevel = "muy_baja" // Score 0-39
)

// RatingPattern tells whether the star distribution looks organic.
type RatingPattern string

const (
	PatternNatural    RatingPattern = "natural"
	PatternSuspicious RatingPattern = "sospechoso"
)

// FrequencyCategory is the qualitative activity level of an agency's reviews.
type FrequencyCategory string

const (
	FrequencyVeryActive   FrequencyCategory = "Muy Activa"
	FrequencyActive       FrequencyCategory = "Activa"
	FrequencyModerate     FrequencyCategory = "Moderada"
	FrequencyLow          FrequencyCategory = "Baja"
	FrequencyInactive     FrequencyCategory = "Inactiva"
	FrequencyUndetermined FrequencyCategory = "No Determinada"
)

// RatingDistribution maps every star value 1..5 to its count.
// All five keys are always present.
type RatingDistribution map[Rating]int

// NewRatingDistribution returns a distribution with all buckets at zero.
func NewRatingDistribution() RatingDistribution {
	d := make(RatingDistribution, int(MaxRating))
	for r := MinRating; r <= MaxRating; r++ {
		d[r] = 0
	}
	return d
}

// Total is the number of valid ratings in the distribution.
func (d RatingDistribution) Total() int {
	total := 0
	for r := MinRating; r <= MaxRating; r++ {
		total += d[r]
	}
	return total
}

// ReviewMetrics is the statistical snapshot computed once per analysis run.
// Pointer fields are nil when the value cannot be determined.
type ReviewMetrics struct {
	ProcessedReviewsCount    int                `json:"processedReviewsCount"`
	AverageRatingSample      *float64           `json:"averageRatingSample"`
	RatingDistributionSample RatingDistribution `json:"ratingDistributionSample"`
	KarmaScoreSample         *float64           `json:"karmaScoreSample"`
	ResponseRatePercentage   int                `json:"responseRatePercentage"`

	NewestReviewDateSample *string `json:"newestReviewDateSample"`
	OldestReviewDateSample *string `json:"oldestReviewDateSample"`

	// Frequency over the 5 most recent dated reviews.
	ReviewFrequencySample   *string           `json:"reviewFrequencySample"`
	ReviewFrequencyCategory FrequencyCategory `json:"reviewFrequencyCategory"`
	AvgDaysBetweenReviews   *int              `json:"avgDaysBetweenReviews"`

	DaysSinceLastReview *int `json:"daysSinceLastReview"`

	// Rate over the full dated history, independent of the 5-review sample.
	AvgReviewsPerMonth *float64 `json:"avgReviewsPerMonth"`
}

// TrustMetrics are the raw signals behind a trust score.
type TrustMetrics struct {
	PositiveReviewsPercent int           `json:"positiveReviewsPercent"`
	FraudKeywordsCount     int           `json:"fraudKeywordsCount"`
	ResponseRate           int           `json:"responseRate"`
	RatingPattern          RatingPattern `json:"ratingPattern"`
}

// TrustAnalysis is the verdict for one agency.
type TrustAnalysis struct {
	TrustScore int          `json:"trustScore"` // 0-100
	TrustLevel TrustLevel   `json:"trustLevel"`
	Metrics    TrustMetrics `json:"metrics"`
	RedFlags   []string     `json:"redFlags"`
	GreenFlags []string     `json:"greenFlags"`
}
