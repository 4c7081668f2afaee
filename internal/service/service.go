package service

import (
	"context"

	"github.com/karmatic-mx/trust-engine/internal/domain"
)

type Service interface {
	RegisterAgency(ctx context.Context, agency domain.Agency) (*domain.Agency, error)

	IngestReview(ctx context.Context, agencyID string, review domain.Review) error

	CalculateAndSaveTrust(ctx context.Context, agencyID string) (*domain.AgencyTrust, error)

	CheckTrust(ctx context.Context, agencyID string) (*domain.AgencyTrust, error)

	CityRanking(ctx context.Context, city string, limit int) ([]*domain.AgencyTrust, error)

	Analyze(ctx context.Context, agency domain.Agency, reviews []domain.Review, origin *domain.Location) *domain.AnalysisResult

	RankAgencies(ctx context.Context, candidates []domain.AgencyReviews, origin *domain.Location) ([]*domain.AnalysisResult, error)
}
