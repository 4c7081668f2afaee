package http

import (
	"errors"
	"strings"

	"github.com/karmatic-mx/trust-engine/internal/domain"
)

// maxBatchAgencies bounds a single ranking request.
const maxBatchAgencies = 200

type CreateAgencyRequest struct {
	PlaceID  string          `json:"place_id"`
	Name     string          `json:"name"`
	Phone    string          `json:"phone"`
	City     string          `json:"city"`
	Location domain.Location `json:"location"`
}

func (r *CreateAgencyRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(r.City) == "" {
		return errors.New("city is required")
	}
	return validLocation(r.Location)
}

func (r *CreateAgencyRequest) toAgency() domain.Agency {
	return domain.Agency{
		PlaceID:  r.PlaceID,
		Name:     r.Name,
		Phone:    r.Phone,
		City:     r.City,
		Location: r.Location,
	}
}

type CreateReviewRequest struct {
	ID       string                 `json:"id"`
	Author   string                 `json:"author"`
	Rating   domain.Rating          `json:"rating"`
	Text     string                 `json:"text"`
	Date     string                 `json:"date"`
	Response *domain.ReviewResponse `json:"response"`
}

func (r *CreateReviewRequest) Validate() error {
	if !r.Rating.Valid() {
		return domain.ErrInvalidRating
	}
	return nil
}

func (r *CreateReviewRequest) toReview() domain.Review {
	return domain.Review{
		ID:       r.ID,
		Author:   r.Author,
		Rating:   r.Rating,
		Text:     r.Text,
		Date:     r.Date,
		Response: r.Response,
	}
}

// AnalyzeRequest scores reviews supplied by the caller. Bad ratings and dates
// are tolerated here; the scoring core skips them.
type AnalyzeRequest struct {
	Agency  domain.Agency    `json:"agency"`
	Reviews []domain.Review  `json:"reviews"`
	Origin  *domain.Location `json:"origin"`
}

func (r *AnalyzeRequest) Validate() error {
	if r.Origin != nil {
		return validLocation(*r.Origin)
	}
	return nil
}

type RankRequest struct {
	Origin   *domain.Location       `json:"origin"`
	Agencies []domain.AgencyReviews `json:"agencies"`
}

func (r *RankRequest) Validate() error {
	if len(r.Agencies) == 0 {
		return errors.New("agencies must not be empty")
	}
	if len(r.Agencies) > maxBatchAgencies {
		return errors.New("too many agencies in one request")
	}
	if r.Origin != nil {
		return validLocation(*r.Origin)
	}
	return nil
}

func validLocation(l domain.Location) error {
	if l.Lat < -90 || l.Lat > 90 || l.Lng < -180 || l.Lng > 180 {
		return errors.New("invalid coordinates")
	}
	return nil
}
