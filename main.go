package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	classifyx "krishisetu/agent/classify"
	dispatchx "krishisetu/agent/dispatch"
	orchestratorx "krishisetu/agent/orchestrator"
	registryx "krishisetu/agent/registry"
	specialistsx "krishisetu/agent/specialists"
	historyx "krishisetu/history"
	configx "krishisetu/pkg/config"
	_ "krishisetu/pkg/logger/autoload"
	openrouterx "krishisetu/pkg/openrouter"
	weatherapix "krishisetu/pkg/weatherapi"
	serverx "krishisetu/server"
)

type AppConfig struct {
	HistoryBackend string `envconfig:"HISTORY_BACKEND" split_words:"true" default:"badger"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appCfg := configx.MustNew[AppConfig]("")

	advisor := buildAdvisor()
	provider := buildWeatherProvider()

	reg := registryx.MustNew(
		specialistsx.NewWeather(provider, advisor),
		specialistsx.NewCrop(advisor),
		specialistsx.NewFinance(advisor),
	)

	dispatchCfg := configx.MustNew[dispatchx.Config]("DISPATCH")
	dispatcher := dispatchx.New(reg, dispatchCfg.SpecialistTimeout)

	orch, err := orchestratorx.New(classifyx.MustNew(), dispatcher)
	if err != nil {
		log.Fatal().Err(err).Msg("build orchestrator")
	}

	store := buildHistoryStore(ctx, appCfg.HistoryBackend)
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("close history store")
		}
	}()

	serverCfg := configx.MustNew[serverx.Config]("SERVER")
	srv, err := serverx.New(*serverCfg, orch, reg, store)
	if err != nil {
		log.Fatal().Err(err).Msg("build server")
	}

	if err := srv.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("shutdown complete")
}

// buildAdvisor returns nil when no OpenRouter key is configured; specialists
// then answer from their local knowledge only.
func buildAdvisor() *specialistsx.Advisor {
	cfg := configx.MustNew[openrouterx.Config]("OPENROUTER")
	client := openrouterx.NewClient(*cfg)
	if client == nil {
		log.Info().Msg("openrouter key not set, advisory enrichment disabled")
		return nil
	}
	advisor, err := specialistsx.NewAdvisor(client, cfg.Model)
	if err != nil {
		log.Fatal().Err(err).Msg("build advisor")
	}
	return advisor
}

// buildWeatherProvider prefers live OpenWeatherMap data and falls back to
// seasonal normals when no API key is configured.
func buildWeatherProvider() specialistsx.WeatherProvider {
	cfg := configx.MustNew[weatherapix.Config]("WEATHER")
	if cfg.APIKey == "" {
		log.Info().Msg("weather api key not set, serving seasonal normals")
		return specialistsx.NewStaticWeather()
	}
	client, err := weatherapix.New(*cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("build weather client")
	}
	return client
}

func buildHistoryStore(ctx context.Context, backend string) historyx.Store {
	switch backend {
	case "badger":
		cfg := configx.MustNew[historyx.BadgerConfig]("HISTORY_BADGER")
		store, err := historyx.NewBadgerStore(*cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("open badger history store")
		}
		return store
	case "postgres":
		cfg := configx.MustNew[historyx.PostgresConfig]("HISTORY_POSTGRES")
		store, err := historyx.NewPostgresStore(ctx, *cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("open postgres history store")
		}
		return store
	case "none":
		return historyx.NewNoopStore()
	default:
		log.Fatal().Str("backend", backend).Msg("unknown history backend")
		return nil
	}
}
