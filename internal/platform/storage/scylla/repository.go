package scylla

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gocql/gocql"
	"github.com/rs/zerolog"

	"github.com/karmatic-mx/trust-engine/internal/domain"
	"github.com/karmatic-mx/trust-engine/internal/service"
)

// reviewTTLSeconds keeps raw reviews for 18 months.
const reviewTTLSeconds = 47304000

type scyllaRepository struct {
	session *gocql.Session
}

func NewScyllaRepository(session *gocql.Session) service.Repository {
	return &scyllaRepository{
		session: session,
	}
}

func Connect(logger *zerolog.Logger, keyspace string, timeout time.Duration, hosts ...string) (*gocql.Session, error) {
	cluster := gocql.NewCluster(hosts...)
	cluster.Keyspace = keyspace
	cluster.Consistency = gocql.Quorum
	cluster.ProtoVersion = 4
	cluster.Timeout = timeout
	cluster.ConnectTimeout = timeout

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to scylla: %w", err)
	}

	logger.Info().Strs("hosts", hosts).Str("keyspace", keyspace).Msg("✅ Connected to ScyllaDB")
	return session, nil
}

func (r *scyllaRepository) SaveAgency(ctx context.Context, a *domain.Agency) error {
	query := `
        INSERT INTO agencies (id, place_id, name, phone, city, lat, lng)
        VALUES (?, ?, ?, ?, ?, ?, ?)`

	err := r.session.Query(query,
		a.ID,
		a.PlaceID,
		a.Name,
		a.Phone,
		a.City,
		a.Location.Lat,
		a.Location.Lng,
	).WithContext(ctx).Exec()

	if err != nil {
		return fmt.Errorf("scylla: failed to save agency: %w", err)
	}

	return nil
}

func (r *scyllaRepository) GetAgency(ctx context.Context, agencyID string) (*domain.Agency, error) {
	query := `SELECT id, place_id, name, phone, city, lat, lng FROM agencies WHERE id = ?`

	var a domain.Agency
	err := r.session.Query(query, agencyID).WithContext(ctx).Scan(
		&a.ID,
		&a.PlaceID,
		&a.Name,
		&a.Phone,
		&a.City,
		&a.Location.Lat,
		&a.Location.Lng,
	)

	if errors.Is(err, gocql.ErrNotFound) {
		return nil, domain.ErrAgencyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scylla: failed to get agency: %w", err)
	}

	return &a, nil
}

func (r *scyllaRepository) SaveReview(ctx context.Context, agencyID string, review *domain.Review) error {
	query := `
        INSERT INTO reviews (agency_id, id, author, rating, text, date, has_response, response_text, response_date)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) USING TTL ?`

	var respText, respDate string
	if review.Response != nil {
		respText, respDate = review.Response.Text, review.Response.Date
	}

	err := r.session.Query(query,
		agencyID,
		review.ID,
		review.Author,
		int(review.Rating),
		review.Text,
		review.Date,
		review.HasResponse(),
		respText,
		respDate,
		reviewTTLSeconds,
	).WithContext(ctx).Exec()

	if err != nil {
		return fmt.Errorf("scylla: failed to save review: %w", err)
	}

	return nil
}

func (r *scyllaRepository) GetReviews(ctx context.Context, agencyID string) ([]domain.Review, error) {
	query := `SELECT id, author, rating, text, date, has_response, response_text, response_date
	          FROM reviews WHERE agency_id = ?`

	iter := r.session.Query(query, agencyID).WithContext(ctx).Iter()

	var reviews []domain.Review
	var id, author, text, date, respText, respDate string
	var rating int
	var hasResponse bool

	for iter.Scan(&id, &author, &rating, &text, &date, &hasResponse, &respText, &respDate) {
		review := domain.Review{
			ID:     id,
			Author: author,
			Rating: domain.Rating(rating),
			Text:   text,
			Date:   date,
		}
		if hasResponse {
			review.Response = &domain.ReviewResponse{Text: respText, Date: respDate}
		}
		reviews = append(reviews, review)
	}

	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("scylla: failed to iterate reviews: %w", err)
	}

	return reviews, nil
}

func (r *scyllaRepository) GetTrust(ctx context.Context, agencyID string) (*domain.AgencyTrust, error) {
	query := `
        SELECT agency_id, agency_name, city, trust_score, trust_level, analysis, metrics, total_reviews, calculated_at
        FROM trust_scores WHERE agency_id = ?`

	var t domain.AgencyTrust
	var levelStr, analysisJSON, metricsJSON string

	err := r.session.Query(query, agencyID).WithContext(ctx).Scan(
		&t.AgencyID,
		&t.AgencyName,
		&t.City,
		&t.TrustScore,
		&levelStr,
		&analysisJSON,
		&metricsJSON,
		&t.TotalReviews,
		&t.CalculatedAt,
	)

	if errors.Is(err, gocql.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scylla: failed to get trust: %w", err)
	}

	t.TrustLevel = domain.TrustLevel(levelStr)

	if analysisJSON != "" {
		t.Analysis = &domain.TrustAnalysis{}
		if err := json.Unmarshal([]byte(analysisJSON), t.Analysis); err != nil {
			return nil, fmt.Errorf("scylla: corrupt trust analysis for %s: %w", agencyID, err)
		}
	}
	if metricsJSON != "" {
		t.Metrics = &domain.ReviewMetrics{}
		if err := json.Unmarshal([]byte(metricsJSON), t.Metrics); err != nil {
			return nil, fmt.Errorf("scylla: corrupt review metrics for %s: %w", agencyID, err)
		}
	}

	return &t, nil
}

func (r *scyllaRepository) UpsertTrust(ctx context.Context, t *domain.AgencyTrust, ttlSeconds int) error {
	analysisJSON, err := marshalOptional(t.Analysis)
	if err != nil {
		return fmt.Errorf("scylla: failed to encode trust analysis: %w", err)
	}
	metricsJSON, err := marshalOptional(t.Metrics)
	if err != nil {
		return fmt.Errorf("scylla: failed to encode review metrics: %w", err)
	}

	query := `
        UPDATE trust_scores USING TTL ?
        SET agency_name = ?,
            city = ?,
            trust_score = ?,
            trust_level = ?,
            analysis = ?,
            metrics = ?,
            total_reviews = ?,
            calculated_at = ?
        WHERE agency_id = ?`

	err = r.session.Query(query,
		ttlSeconds,
		t.AgencyName,
		t.City,
		t.TrustScore,
		string(t.TrustLevel),
		analysisJSON,
		metricsJSON,
		t.TotalReviews,
		t.CalculatedAt,
		t.AgencyID,
	).WithContext(ctx).Exec()

	if err != nil {
		return fmt.Errorf("scylla: failed to upsert trust: %w", err)
	}

	return nil
}

func (r *scyllaRepository) UpsertCityRanking(ctx context.Context, t *domain.AgencyTrust, ttlSeconds int) error {
	query := `
        INSERT INTO city_rankings (city, agency_id, agency_name, trust_score, trust_level, total_reviews, calculated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?) USING TTL ?`

	err := r.session.Query(query,
		t.City,
		t.AgencyID,
		t.AgencyName,
		t.TrustScore,
		string(t.TrustLevel),
		t.TotalReviews,
		t.CalculatedAt,
		ttlSeconds,
	).WithContext(ctx).Exec()

	if err != nil {
		return fmt.Errorf("scylla: failed to upsert city ranking: %w", err)
	}

	return nil
}

func (r *scyllaRepository) GetCityRanking(ctx context.Context, city string) ([]*domain.AgencyTrust, error) {
	query := `SELECT agency_id, agency_name, trust_score, trust_level, total_reviews, calculated_at
	          FROM city_rankings WHERE city = ?`

	iter := r.session.Query(query, city).WithContext(ctx).Iter()

	var out []*domain.AgencyTrust
	var agencyID, name, level string
	var score, total int
	var calculatedAt time.Time

	for iter.Scan(&agencyID, &name, &score, &level, &total, &calculatedAt) {
		out = append(out, &domain.AgencyTrust{
			AgencyID:     agencyID,
			AgencyName:   name,
			City:         city,
			TrustScore:   score,
			TrustLevel:   domain.TrustLevel(level),
			TotalReviews: total,
			CalculatedAt: calculatedAt,
		})
	}

	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("scylla: failed to iterate city ranking: %w", err)
	}

	return out, nil
}

func (r *scyllaRepository) DeleteTrust(ctx context.Context, agencyID string, city string) error {
	batch := r.session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	batch.Query("DELETE FROM trust_scores WHERE agency_id = ?", agencyID)
	batch.Query("DELETE FROM city_rankings WHERE city = ? AND agency_id = ?", city, agencyID)

	if err := r.session.ExecuteBatch(batch); err != nil {
		return fmt.Errorf("scylla: failed to delete trust: %w", err)
	}
	return nil
}

func marshalOptional[T any](v *T) (string, error) {
	if v == nil {
		return "", nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
