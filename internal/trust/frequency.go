package trust

import (
	"fmt"
	"math"
	"time"

	"github.com/karmatic-mx/trust-engine/internal/domain"
)

const (
	// frequencySampleSize is how many of the most recent reviews feed the
	// frequency category. The full history is only used for avgReviewsPerMonth.
	frequencySampleSize = 5

	daysPerMonth = 30.44
	day          = 24 * time.Hour
)

// frequency is the result of classifying the recent review cadence.
type frequency struct {
	category    domain.FrequencyCategory
	description string
	avgDays     int
}

// classifyFrequency maps the average number of days between reviews to a
// category and a human readable description.
func classifyFrequency(avgDaysPerReview float64) frequency {
	f := frequency{avgDays: int(math.Round(avgDaysPerReview))}

	switch {
	case avgDaysPerReview < 0.5:
		f.category = domain.FrequencyVeryActive
		f.description = "Varias por día"
	case avgDaysPerReview < 1.5:
		f.category = domain.FrequencyVeryActive
		f.description = "Aprox. 1 cada día"
	case avgDaysPerReview < 7:
		f.category = domain.FrequencyVeryActive
		f.description = fmt.Sprintf("Aprox. 1 cada %d días", int(math.Round(avgDaysPerReview)))
	case avgDaysPerReview < 30:
		f.category = domain.FrequencyActive
		f.description = everyN(int(math.Round(avgDaysPerReview/7)), "Aprox. 1 cada 1 semana", "semanas")
	case avgDaysPerReview < 90:
		f.category = domain.FrequencyModerate
		f.description = everyN(int(math.Round(avgDaysPerReview/30)), "Aprox. 1 cada mes", "meses")
	case avgDaysPerReview < 180:
		f.category = domain.FrequencyLow
		f.description = everyN(int(math.Round(avgDaysPerReview/30)), "Aprox. 1 cada mes", "meses")
	default:
		f.category = domain.FrequencyInactive
		f.description = everyN(int(math.Round(avgDaysPerReview/30)), "Aprox. 1 cada mes", "meses")
	}

	return f
}

func everyN(n int, one, unit string) string {
	if n <= 1 {
		return one
	}
	return fmt.Sprintf("Aprox. 1 cada %d %s", n, unit)
}

// sampleFrequency classifies the cadence of the most recent reviews.
// dated must be sorted newest first. ok is false when fewer than two dated
// reviews are available.
func sampleFrequency(dated []datedReview) (f frequency, ok bool) {
	sample := dated
	if len(sample) > frequencySampleSize {
		sample = sample[:frequencySampleSize]
	}
	if len(sample) < 2 {
		return frequency{}, false
	}

	elapsed := sample[0].at.Sub(sample[len(sample)-1].at)
	if elapsed == 0 {
		return frequency{
			category:    domain.FrequencyVeryActive,
			description: "Múltiples en el mismo día",
			avgDays:     0,
		}, true
	}

	avgDaysPerReview := days(elapsed) / float64(len(sample)-1)
	return classifyFrequency(avgDaysPerReview), true
}

func days(d time.Duration) float64 {
	return float64(d) / float64(day)
}
