package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/karmatic-mx/trust-engine/internal/domain"
	"github.com/karmatic-mx/trust-engine/internal/platform/observability"
	"github.com/karmatic-mx/trust-engine/internal/trust"
)

const (
	defaultTrustTTL        = 7 * 24 * 60 * 60
	defaultRankConcurrency = 8
	defaultRegion          = "MX"
)

// Settings tunes the service. Zero values fall back to defaults.
type Settings struct {
	TrustTTLSeconds int
	RankConcurrency int
	Region          string

	// Analyzer lets tests pin the clock.
	Analyzer *trust.Analyzer
}

// trustService is the concrete implementation of the Service interface.
// It is unexported to force usage of the Interface.
type trustService struct {
	repo     Repository
	analyzer *trust.Analyzer
	logger   *zerolog.Logger
	settings Settings
}

// NewTrustService wires the scoring core to persistence.
func NewTrustService(repo Repository, logger *zerolog.Logger, settings Settings) Service {
	if settings.TrustTTLSeconds <= 0 {
		settings.TrustTTLSeconds = defaultTrustTTL
	}
	if settings.RankConcurrency <= 0 {
		settings.RankConcurrency = defaultRankConcurrency
	}
	if settings.Region == "" {
		settings.Region = defaultRegion
	}
	if settings.Analyzer == nil {
		settings.Analyzer = trust.NewAnalyzer()
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &trustService{
		repo:     repo,
		analyzer: settings.Analyzer,
		logger:   logger,
		settings: settings,
	}
}

// RegisterAgency validates and stores an agency. The phone, when given, is
// normalised to E.164 and must belong to the configured region.
func (s *trustService) RegisterAgency(ctx context.Context, agency domain.Agency) (*domain.Agency, error) {
	agency.Name = strings.TrimSpace(agency.Name)
	agency.City = strings.TrimSpace(agency.City)
	if agency.Name == "" || agency.City == "" {
		return nil, fmt.Errorf("%w: name and city are required", domain.ErrInvalidAgency)
	}

	if agency.Phone != "" {
		phone, err := normalizePhone(agency.Phone, s.settings.Region)
		if err != nil {
			return nil, err
		}
		agency.Phone = phone
	}

	if agency.ID == "" {
		agency.ID = uuid.NewString()
	}

	if err := s.repo.SaveAgency(ctx, &agency); err != nil {
		return nil, fmt.Errorf("failed to save agency: %w", err)
	}

	s.logger.Info().Str("agency_id", agency.ID).Str("city", agency.City).Msg("agency registered")
	return &agency, nil
}

// IngestReview stores one review for an existing agency.
func (s *trustService) IngestReview(ctx context.Context, agencyID string, review domain.Review) error {
	if _, err := s.repo.GetAgency(ctx, agencyID); err != nil {
		return fmt.Errorf("ingest review: %w", err)
	}

	if !review.Rating.Valid() {
		return domain.ErrInvalidRating
	}
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	if review.Date == "" {
		review.Date = time.Now().UTC().Format(time.RFC3339)
	}

	if err := s.repo.SaveReview(ctx, agencyID, &review); err != nil {
		return fmt.Errorf("failed to save review: %w", err)
	}

	observability.ReviewsIngested.Inc()
	return nil
}

// CalculateAndSaveTrust recomputes the trust snapshot of an agency from all
// its stored reviews.
func (s *trustService) CalculateAndSaveTrust(ctx context.Context, agencyID string) (*domain.AgencyTrust, error) {
	agency, err := s.repo.GetAgency(ctx, agencyID)
	if err != nil {
		return nil, fmt.Errorf("calculate trust: %w", err)
	}

	reviews, err := s.repo.GetReviews(ctx, agencyID)
	if err != nil {
		return nil, fmt.Errorf("calculate trust: %w", err)
	}

	if len(reviews) == 0 {
		if err := s.repo.DeleteTrust(ctx, agencyID, cityKey(agency.City)); err != nil {
			return nil, fmt.Errorf("calculate trust: %w", err)
		}
		s.logger.Info().Str("agency_id", agencyID).Msg("no reviews, trust snapshot removed")
		return s.unscored(agency), nil
	}

	res := s.analyzer.AnalyzeTrustWithMetrics(reviews)
	observe(res)

	snapshot := &domain.AgencyTrust{
		AgencyID:     agency.ID,
		AgencyName:   agency.Name,
		City:         cityKey(agency.City),
		TrustScore:   res.TrustAnalysis.TrustScore,
		TrustLevel:   res.TrustAnalysis.TrustLevel,
		Analysis:     &res.TrustAnalysis,
		Metrics:      &res.ReviewMetrics,
		TotalReviews: len(reviews),
		CalculatedAt: time.Now().UTC(),
	}

	if err := s.repo.UpsertTrust(ctx, snapshot, s.settings.TrustTTLSeconds); err != nil {
		return nil, fmt.Errorf("calculate trust: %w", err)
	}
	if err := s.repo.UpsertCityRanking(ctx, snapshot, s.settings.TrustTTLSeconds); err != nil {
		return nil, fmt.Errorf("calculate trust: %w", err)
	}

	s.logger.Info().
		Str("agency_id", agencyID).
		Int("reviews", len(reviews)).
		Int("trust_score", snapshot.TrustScore).
		Str("trust_level", string(snapshot.TrustLevel)).
		Int("red_flags", len(res.TrustAnalysis.RedFlags)).
		Msg("trust recalculated")

	return snapshot, nil
}

// CheckTrust reads the stored snapshot. An agency that was never scored gets
// the neutral verdict of an empty review set.
func (s *trustService) CheckTrust(ctx context.Context, agencyID string) (*domain.AgencyTrust, error) {
	agency, err := s.repo.GetAgency(ctx, agencyID)
	if err != nil {
		return nil, fmt.Errorf("check trust: %w", err)
	}

	snapshot, err := s.repo.GetTrust(ctx, agencyID)
	if err != nil {
		return nil, fmt.Errorf("check trust: %w", err)
	}
	if snapshot == nil {
		return s.unscored(agency), nil
	}
	return snapshot, nil
}

// CityRanking lists the scored agencies of a city, best first.
func (s *trustService) CityRanking(ctx context.Context, city string, limit int) ([]*domain.AgencyTrust, error) {
	ranking, err := s.repo.GetCityRanking(ctx, cityKey(city))
	if err != nil {
		return nil, fmt.Errorf("city ranking: %w", err)
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		if ranking[i].TrustScore != ranking[j].TrustScore {
			return ranking[i].TrustScore > ranking[j].TrustScore
		}
		return ranking[i].AgencyName < ranking[j].AgencyName
	})

	if limit > 0 && len(ranking) > limit {
		ranking = ranking[:limit]
	}
	return ranking, nil
}

// Analyze scores an agency from reviews supplied by the caller, without
// touching storage.
func (s *trustService) Analyze(_ context.Context, agency domain.Agency, reviews []domain.Review, origin *domain.Location) *domain.AnalysisResult {
	res := s.analyzer.AnalyzeTrustWithMetrics(reviews)
	observe(res)

	var distance *float64
	if origin != nil {
		d := distanceKm(*origin, agency.Location)
		distance = &d
	}

	return domain.NewAnalysisResult(agency, res.TrustAnalysis, res.ReviewMetrics, reviews, distance)
}

// RankAgencies analyzes every candidate concurrently and sorts them by trust
// score, then distance, then name.
func (s *trustService) RankAgencies(ctx context.Context, candidates []domain.AgencyReviews, origin *domain.Location) ([]*domain.AnalysisResult, error) {
	start := time.Now()
	defer func() {
		observability.RankBatchDuration.Observe(time.Since(start).Seconds())
	}()

	results := make([]*domain.AnalysisResult, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.settings.RankConcurrency)

	for i, c := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.Analyze(gctx, c.Agency, c.Reviews, origin)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("rank agencies: %w", err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.TrustAnalysis.TrustScore != b.TrustAnalysis.TrustScore {
			return a.TrustAnalysis.TrustScore > b.TrustAnalysis.TrustScore
		}
		if a.DistanceKm != nil && b.DistanceKm != nil && *a.DistanceKm != *b.DistanceKm {
			return *a.DistanceKm < *b.DistanceKm
		}
		return a.Agency.Name < b.Agency.Name
	})

	s.logger.Debug().Int("agencies", len(results)).Dur("took", time.Since(start)).Msg("agencies ranked")
	return results, nil
}

func (s *trustService) unscored(agency *domain.Agency) *domain.AgencyTrust {
	neutral := s.analyzer.AnalyzeTrustWithMetrics(nil).TrustAnalysis
	return &domain.AgencyTrust{
		AgencyID:   agency.ID,
		AgencyName: agency.Name,
		City:       cityKey(agency.City),
		TrustScore: neutral.TrustScore,
		TrustLevel: neutral.TrustLevel,
	}
}

func observe(res trust.Result) {
	observability.TrustAnalyses.WithLabelValues(string(res.TrustAnalysis.TrustLevel)).Inc()
	observability.TrustScore.Observe(float64(res.TrustAnalysis.TrustScore))
	if res.TrustAnalysis.Metrics.RatingPattern == domain.PatternSuspicious {
		observability.SuspiciousPatterns.Inc()
	}
}

// cityKey is the partition key used for per-city rankings.
func cityKey(city string) string {
	return cases.Lower(language.Spanish).String(strings.TrimSpace(city))
}

func normalizePhone(raw, region string) (string, error) {
	num, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidPhone, err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", domain.ErrInvalidPhone
	}
	if phonenumbers.GetRegionCodeForNumber(num) != region {
		return "", domain.ErrPhoneWrongRegion
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}
