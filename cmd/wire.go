package cmd

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/egemenh/salestracker/internal/adapters/feed/roblox"
	"github.com/egemenh/salestracker/internal/adapters/notify/terminal"
	tomlrepo "github.com/egemenh/salestracker/internal/adapters/repo/toml"
	filestore "github.com/egemenh/salestracker/internal/adapters/store/file"
	"github.com/egemenh/salestracker/internal/application"
	"github.com/spf13/viper"
)

type app struct {
	session *application.SessionService
	logger  *log.Logger
}

func wireApp() (*app, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "salestracker",
		Level:           log.WarnLevel,
	})

	cfg := viper.New()
	cfg.SetDefault("feed.base_url", roblox.DefaultBaseURL)
	cfg.SetDefault("feed.page_size", 0)
	cfg.SetDefault("feed.page_delay", application.DefaultPageDelay)
	cfg.SetDefault("refresh.period", application.DefaultRefreshPeriod)

	historyRepo, err := tomlrepo.NewRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire history repository: %w", err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	secretStore := filestore.NewStore(filepath.Join(homeDir, ".salestracker", "credentials"))

	feed := &roblox.Client{
		BaseURL:    envOrDefault("SALESTRACKER_FEED_URL", cfg.GetString("feed.base_url")),
		HTTPClient: http.DefaultClient,
		PageSize:   cfg.GetInt("feed.page_size"),
	}

	engine := application.NewSyncEngine(feed, nil, logger)
	engine.SetPageDelay(cfg.GetDuration("feed.page_delay"))

	notifier := terminal.NewNotifier(os.Stdout)
	session := application.NewSessionService(engine, secretStore, historyRepo, notifier, logger)
	session.SetRefreshPeriod(cfg.GetInt("refresh.period"))

	return &app{session: session, logger: logger}, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
