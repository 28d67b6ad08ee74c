package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/glabrego/lemmy-cli/internal/app"
	"github.com/glabrego/lemmy-cli/internal/config"
	"github.com/glabrego/lemmy-cli/internal/feed"
	"github.com/glabrego/lemmy-cli/internal/gateway"
	"github.com/glabrego/lemmy-cli/internal/logger"
	"github.com/glabrego/lemmy-cli/internal/metrics"
	"github.com/glabrego/lemmy-cli/internal/prefetch"
	"github.com/glabrego/lemmy-cli/internal/session"
	"github.com/glabrego/lemmy-cli/internal/settings"
	"github.com/glabrego/lemmy-cli/internal/storage"
	"github.com/glabrego/lemmy-cli/internal/store"
	"github.com/glabrego/lemmy-cli/internal/tui"
)

func main() {
	config.LoadDotEnv()
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logFile, err := logger.OpenFile(cfg.LogPath)
	if err != nil {
		log.Fatalf("log init error: %v", err)
	}
	defer logFile.Close()
	lg, err := logger.Setup(logFile, cfg.LogLevel)
	if err != nil {
		log.Fatalf("log init error: %v", err)
	}

	repo, err := storage.NewRepository(cfg.DBPath)
	if err != nil {
		log.Fatalf("storage init error: %v", err)
	}
	defer repo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := repo.Init(ctx); err != nil {
		log.Fatalf("storage schema error: %v", err)
	}
	if err := repo.CheckWritable(ctx); err != nil {
		log.Fatalf("storage write check failed (%v). Verify LEMMY_DB_PATH is writable: %s", err, cfg.DBPath)
	}

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)
	if cfg.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           metrics.SetupMetricsRoute(reg),
			ReadHeaderTimeout: time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				lg.Error("metrics server stopped", "addr", cfg.MetricsAddr, "error", err)
			}
		}()
		defer srv.Close()
	}

	state := store.NewState()
	prefs := settings.NewHolder(settings.Defaults())
	dial := session.NewDialer(session.DialerConfig{
		UserAgent:         cfg.UserAgent,
		Timeout:           cfg.HTTPTimeout,
		RequestsPerSecond: cfg.RateLimit,
		Logger:            lg,
	})
	manager := session.NewManager(dial, state.Site, lg)
	service := app.NewService(manager, repo, prefs, state, lg)

	if _, err := service.LoadSettings(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not load settings (%v), using defaults\n", err)
	}
	if err := signIn(ctx, cfg, service); err != nil {
		log.Fatalf("sign in failed: %v", err)
	}

	prefetcher := prefetch.New(prefetch.Options{Logger: lg, UserAgent: cfg.UserAgent})
	defer prefetcher.Close()

	gw := gateway.New(manager, state, prefs, gateway.Options{
		Logger:     lg,
		Recorder:   collector,
		Prefetcher: prefetcher,
	})
	lg.Info("session ready", "host", manager.Session().ServerHost, "protocol", state.Site.Protocol().String())

	current := prefs.Get()
	opts := gateway.PostsOptions{Type: current.DefaultListingType, Sort: current.DefaultSort}
	feedID := feed.Key("home", url.Values{
		"type": {string(opts.Type)},
		"sort": {string(opts.Sort)},
	})

	runCtx, runCancel := context.WithCancel(context.Background())
	defer runCancel()
	model := tui.NewModel(gw, state, tui.Options{Context: runCtx, FeedID: feedID, Posts: opts})

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.Fatalf("tui error: %v", err)
	}
}

// signIn uses the credentials from the environment when present and falls
// back to the saved account otherwise.
func signIn(ctx context.Context, cfg config.Config, service *app.Service) error {
	if cfg.HasCredentials() {
		result, err := service.SignIn(ctx, session.Options{
			Host:      cfg.Host,
			Username:  cfg.Username,
			Password:  cfg.Password,
			TOTPToken: cfg.TOTP,
			Flavor:    cfg.Flavor,
		}, nil)
		if err != nil {
			return err
		}
		if result != session.ResultSuccess {
			return fmt.Errorf("server asks for %s", result)
		}
		return nil
	}

	result, found, err := service.Restore(ctx)
	if err != nil {
		return err
	}
	if !found {
		return errors.New("no saved account; set LEMMY_HOST, LEMMY_USERNAME and LEMMY_PASSWORD")
	}
	if result != session.ResultSuccess {
		return fmt.Errorf("saved session rejected, server asks for %s", result)
	}
	return nil
}
