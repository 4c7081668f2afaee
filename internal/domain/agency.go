package domain

import (
	"time"

	"github.com/google/uuid"
)

// Location is a WGS84 coordinate.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Agency is an automotive dealership.
// This struct maps to the 'agencies' table in ScyllaDB.
type Agency struct {
	ID      string `json:"id" db:"id"`
	PlaceID string `json:"place_id,omitempty" db:"place_id"` // Google Places id, when known
	Name    string `json:"name" db:"name"`

	// Phone is stored in E.164 format.
	Phone string `json:"phone,omitempty" db:"phone"`

	City     string   `json:"city" db:"city"`
	Location Location `json:"location" db:"-"`
}

// AgencyTrust is the persisted trust state of an agency.
// This struct maps to the 'trust_scores' table in ScyllaDB.
type AgencyTrust struct {
	AgencyID   string     `json:"agency_id" db:"agency_id"`
	AgencyName string     `json:"agency_name" db:"agency_name"`
	City       string     `json:"city" db:"city"`
	TrustScore int        `json:"trust_score" db:"trust_score"`
	TrustLevel TrustLevel `json:"trust_level" db:"trust_level"`

	// Analysis and Metrics are nil for an agency that has never been scored.
	Analysis *TrustAnalysis `json:"analysis,omitempty" db:"analysis"`
	Metrics  *ReviewMetrics `json:"metrics,omitempty" db:"metrics"`

	TotalReviews int       `json:"total_reviews" db:"total_reviews"`
	CalculatedAt time.Time `json:"calculated_at" db:"calculated_at"`
}

// AnalysisResult is the per-agency record produced by a ranking run.
type AnalysisResult struct {
	ID            uuid.UUID     `json:"id"`
	Agency        Agency        `json:"agency"`
	TrustAnalysis TrustAnalysis `json:"trust_analysis"`
	ReviewMetrics ReviewMetrics `json:"review_metrics"`
	Reviews       []Review      `json:"reviews"`

	// DistanceKm is nil when no search origin was given.
	DistanceKm *float64  `json:"distance_km,omitempty"`
	AnalyzedAt time.Time `json:"analyzed_at"`
}

// NewAnalysisResult is a factory for a fresh result record.
func NewAnalysisResult(agency Agency, analysis TrustAnalysis, metrics ReviewMetrics, reviews []Review, distanceKm *float64) *AnalysisResult {
	return &AnalysisResult{
		ID:            uuid.New(),
		Agency:        agency,
		TrustAnalysis: analysis,
		ReviewMetrics: metrics,
		Reviews:       reviews,
		DistanceKm:    distanceKm,
		AnalyzedAt:    time.Now().UTC(),
	}
}

// AgencyReviews pairs an agency with its reviews for batch ranking.
type AgencyReviews struct {
	Agency  Agency   `json:"agency"`
	Reviews []Review `json:"reviews"`
}
