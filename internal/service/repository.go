package service

import (
	"context"

	"github.com/karmatic-mx/trust-engine/internal/domain"
)

type Repository interface {
	SaveAgency(ctx context.Context, a *domain.Agency) error

	// GetAgency returns domain.ErrAgencyNotFound when the id is unknown.
	GetAgency(ctx context.Context, agencyID string) (*domain.Agency, error)

	SaveReview(ctx context.Context, agencyID string, r *domain.Review) error

	GetReviews(ctx context.Context, agencyID string) ([]domain.Review, error)

	UpsertTrust(ctx context.Context, t *domain.AgencyTrust, ttlSeconds int) error

	UpsertCityRanking(ctx context.Context, t *domain.AgencyTrust, ttlSeconds int) error

	DeleteTrust(ctx context.Context, agencyID string, city string) error

	// GetTrust returns nil, nil when the agency has never been scored.
	GetTrust(ctx context.Context, agencyID string) (*domain.AgencyTrust, error)

	GetCityRanking(ctx context.Context, city string) ([]*domain.AgencyTrust, error)
}
