package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"go-ma-automation/internal/config"
	"go-ma-automation/internal/dedup"
	"go-ma-automation/internal/docgen"
	"go-ma-automation/internal/filter"
	"go-ma-automation/internal/followup"
	"go-ma-automation/internal/ledger"
	"go-ma-automation/internal/logger"
	"go-ma-automation/internal/mailer"
	"go-ma-automation/internal/manager"
	"go-ma-automation/internal/notify"
	"go-ma-automation/internal/report"
	"go-ma-automation/internal/scraper"
)

const sessionTimeout = 30 * time.Minute

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	schedule := flag.Bool("schedule", false, "keep running and repeat the session every 24h")
	flag.Parse()

	logger.Init()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to load configuration")
	}
	log.Info().Str("location", cfg.TargetLocation).Int("daily_limit", cfg.DailyApplicationLimit).Msg("🔧 Config loaded")

	store, err := ledger.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to open application ledger")
	}
	defer store.Close()
	if err := store.Migrate(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to migrate application ledger")
	}

	m, err := buildManager(cfg, store)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to build session manager")
	}

	if *schedule {
		log.Info().Msg("⏰ Running in scheduled mode, one session every 24h")
		runSession(cfg, store, m)
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			runSession(cfg, store, m)
		}
		return
	}

	runSession(cfg, store, m)
}

func buildManager(cfg *config.Config, store *ledger.Ledger) (*manager.Manager, error) {
	jf := filter.NewJobFilter(cfg.KeywordSets, cfg.TargetCompanies, cfg.Geography)

	client := scraper.NewRateLimitedClient(0.5)
	sources := []scraper.Source{
		scraper.NewLinkedInSource(client, cfg.MAKeywords, cfg.TargetLocation),
		scraper.NewIndeedSource(client, cfg.MAKeywords, cfg.TargetLocation, cfg.SearchRadiusMiles),
	}
	multi := scraper.NewMulti(sources, jf.Scorer(), cfg.ListingAcceptScore, dedup.NewSeenCache("data"))

	docs, err := docgen.New(cfg.OutputDir)
	if err != nil {
		return nil, err
	}

	var sweeper manager.FollowUpSweeper
	if cfg.EmailFollowUp && cfg.SMTP.From != "" {
		sweeper = followup.NewSweeper(store, mailer.New(cfg.SMTP), cfg.FollowUpEmail)
	} else if cfg.EmailFollowUp {
		log.Warn().Msg("⚠️ Email follow-up enabled but SMTP sender not configured, skipping follow-ups")
	}

	m := manager.New(cfg, store, jf, multi, docs, sweeper)

	if cfg.Telegram.Token != "" {
		bot, err := notify.NewTelegramNotifier(cfg.Telegram)
		if err != nil {
			log.Warn().Err(err).Msg("⚠️ Failed to init Telegram notifier, continuing without it")
		} else {
			m.WithNotifier(bot)
			log.Info().Msg("🤖 Telegram notifier initialized")
		}
	}
	return m, nil
}

func runSession(cfg *config.Config, store *ledger.Ledger, m *manager.Manager) {
	ctx, cancel := context.WithTimeout(context.Background(), sessionTimeout)
	defer cancel()

	result, err := m.RunDailySession(ctx)
	if err != nil {
		log.Error().Err(err).Msg("❌ Session aborted")
		return
	}

	stats, err := store.Statistics(ctx)
	if err != nil {
		log.Error().Err(err).Msg("❌ Failed to load ledger statistics")
		return
	}

	fmt.Println(report.BuildDaily(stats, result))
	log.Info().Msg("🏁 Session finished")
}
