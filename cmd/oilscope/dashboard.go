package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/oilscope/oilscope/internal/api"
	"github.com/oilscope/oilscope/internal/config"
	"github.com/oilscope/oilscope/internal/core"
	"github.com/oilscope/oilscope/internal/store"
	"github.com/oilscope/oilscope/internal/tui"
)

func runDashboard(cfg config.Config) {
	client := api.NewClient(cfg.API.BaseURL, cfg.API.Token, cfg.LocationID)

	cache, err := store.Open(config.CachePath())
	if err != nil {
		log.Printf("cache unavailable, running without offline fallback: %v", err)
		cache = nil
	} else {
		defer cache.Close()
	}

	engine := core.NewEngine()
	registerFeeds(engine, client, cache, cfg.LocationID)

	interval := time.Duration(cfg.UI.RefreshIntervalSeconds) * time.Second
	model := tui.NewModel(engine, interval)

	program := tea.NewProgram(model, tea.WithAltScreen())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("TUI error: %v", err)
	}
}

// registerFeeds wires the backend client into the refresh engine. The tank
// and price feeds write through to the sqlite cache on success and fall back
// to it when the backend is unreachable, so the dashboard keeps rendering
// offline.
func registerFeeds(engine *core.Engine, client *api.Client, cache *store.Store, locationID int) {
	engine.RegisterFeed(core.FeedPrices, func(ctx context.Context, window core.TimeWindow) (core.FeedData, error) {
		series, err := client.Prices(ctx, window)
		if err != nil {
			if cache != nil {
				if cached, cacheErr := cache.PriceHistory(ctx, window); cacheErr == nil && len(cached) > 0 {
					log.Printf("prices feed falling back to cache: %v", err)
					return core.FeedData{Prices: cached}, nil
				}
			}
			return core.FeedData{}, err
		}
		if cache != nil {
			if err := cache.UpsertPrices(ctx, series); err != nil {
				log.Printf("caching prices: %v", err)
			}
		}
		return core.FeedData{Prices: series}, nil
	})

	engine.RegisterFeed(core.FeedTank, func(ctx context.Context, window core.TimeWindow) (core.FeedData, error) {
		readings, err := client.TankReadings(ctx, window)
		if err != nil {
			if cache != nil {
				if cached, cacheErr := cache.ReadingsSince(ctx, locationID, window); cacheErr == nil && len(cached) > 0 {
					log.Printf("tank feed falling back to cache: %v", err)
					return core.FeedData{Readings: cached}, nil
				}
			}
			return core.FeedData{}, err
		}
		if cache != nil {
			if _, _, err := cache.UpsertReadings(ctx, locationID, readings); err != nil {
				log.Printf("caching readings: %v", err)
			}
		}
		return core.FeedData{Readings: readings}, nil
	})

	engine.RegisterFeed(core.FeedOrders, func(ctx context.Context, window core.TimeWindow) (core.FeedData, error) {
		orders, err := client.Orders(ctx, window)
		if err != nil {
			return core.FeedData{}, err
		}
		return core.FeedData{Orders: orders}, nil
	})

	engine.RegisterFeed(core.FeedWeather, func(ctx context.Context, window core.TimeWindow) (core.FeedData, error) {
		temps, err := client.Temperatures(ctx, window)
		if err != nil {
			return core.FeedData{}, err
		}
		return core.FeedData{Temps: temps}, nil
	})

	engine.RegisterFeed(core.FeedSummary, func(ctx context.Context, _ core.TimeWindow) (core.FeedData, error) {
		summary, err := client.Summary(ctx)
		if err != nil {
			return core.FeedData{}, err
		}
		return core.FeedData{Summary: &summary}, nil
	})
}
