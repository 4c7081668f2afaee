package main

import (
	"context"
	"flag"

	"github.com/karmatic-mx/trust-engine/internal/config"
	"github.com/karmatic-mx/trust-engine/internal/platform/observability"
	"github.com/karmatic-mx/trust-engine/internal/platform/storage/scylla"
	"github.com/karmatic-mx/trust-engine/internal/service"
)

func main() {
	agencyPtr := flag.String("agency", "", "The agency id to recalculate trust for")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		bootLogger := observability.NewLogger("local")
		bootLogger.Fatal().Err(err).Msg("❌ Invalid configuration")
	}
	logger := observability.NewLogger(cfg.AppEnv)

	if *agencyPtr == "" {
		logger.Fatal().Msg("❌ Error: You must provide an agency id.\nUsage: go run cmd/worker/main.go -agency=<uuid>")
	}

	logger.Info().Str("agency_id", *agencyPtr).Msg("🐝 Karmatic Worker starting manually")

	session, err := scylla.Connect(&logger, cfg.ScyllaKeyspace, cfg.ScyllaTimeout, cfg.ScyllaHosts...)
	if err != nil {
		logger.Fatal().Err(err).Msg("❌ DB Connection Failed")
	}
	defer session.Close()

	svc := service.NewTrustService(scylla.NewScyllaRepository(session), &logger, service.Settings{
		TrustTTLSeconds: cfg.TrustScoreTTL,
		Region:          cfg.DefaultRegion,
	})

	logger.Info().Msg("🧠 Recalculating trust...")
	snapshot, err := svc.CalculateAndSaveTrust(context.Background(), *agencyPtr)
	if err != nil {
		logger.Fatal().Err(err).Msg("❌ Calculation Failed")
	}

	logger.Info().
		Int("trust_score", snapshot.TrustScore).
		Str("trust_level", string(snapshot.TrustLevel)).
		Int("total_reviews", snapshot.TotalReviews).
		Msg("✅ Success! Trust snapshot updated in ScyllaDB (trust_scores & city_rankings tables).")
}
