package main

import (
	"net/http"

	"github.com/karmatic-mx/trust-engine/internal/config"
	httpHandler "github.com/karmatic-mx/trust-engine/internal/platform/http"
	"github.com/karmatic-mx/trust-engine/internal/platform/observability"
	"github.com/karmatic-mx/trust-engine/internal/platform/storage/scylla"
	"github.com/karmatic-mx/trust-engine/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := observability.NewLogger("local")
		bootLogger.Fatal().Err(err).Msg("❌ Invalid configuration")
	}

	logger := observability.NewLogger(cfg.AppEnv)
	logger.Info().Str("env", cfg.AppEnv).Msg("🛡️  Iniciando Karmatic Trust Engine...")

	session, err := scylla.Connect(&logger, cfg.ScyllaKeyspace, cfg.ScyllaTimeout, cfg.ScyllaHosts...)
	if err != nil {
		logger.Fatal().Err(err).Msg("❌ Error conectando a ScyllaDB")
	}
	defer session.Close()

	repo := scylla.NewScyllaRepository(session)

	svc := service.NewTrustService(repo, &logger, service.Settings{
		TrustTTLSeconds: cfg.TrustScoreTTL,
		RankConcurrency: cfg.RankConcurrency,
		Region:          cfg.DefaultRegion,
	})

	handler := httpHandler.NewHandler(svc, &logger)
	router := httpHandler.NewRouter(handler, cfg.APIMasterKey)

	logger.Info().Msgf("🚀 Servidor escuchando en http://localhost%s", cfg.HTTPPort)
	if err := http.ListenAndServe(cfg.HTTPPort, router); err != nil {
		logger.Fatal().Err(err).Msg("❌ Error en el servidor HTTP")
	}
}
