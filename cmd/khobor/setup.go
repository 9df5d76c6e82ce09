package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/deusflow/khobor/internal/aggregator"
	"github.com/deusflow/khobor/internal/app"
	"github.com/deusflow/khobor/internal/cache"
	"github.com/deusflow/khobor/internal/config"
	"github.com/deusflow/khobor/internal/digest"
	"github.com/deusflow/khobor/internal/gemini"
	"github.com/deusflow/khobor/internal/ratelimit"
	"github.com/deusflow/khobor/internal/relay"
	"github.com/deusflow/khobor/internal/rss"
	"github.com/deusflow/khobor/internal/scraper"
	"github.com/deusflow/khobor/internal/storage"
)

// runtime holds everything a command needs, opened from config.
type runtime struct {
	cfg        *config.Config
	sources    *config.SourcesConfig
	store      storage.KV
	offline    *storage.OfflineStore
	imageCache *cache.Cache[string]
	ctrl       *app.Controller
	gemini     *gemini.Client
}

type setupOptions struct {
	allowOld bool
	progress aggregator.ProgressFunc
}

func setup(ctx context.Context, opts setupOptions) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	path := flagSources
	if path == "" {
		path = cfg.SourcesConfigPath
	}
	sources, err := config.LoadSources(path)
	if err != nil {
		return nil, err
	}

	rt := &runtime{cfg: cfg, sources: sources}
	if rt.store, err = app.OpenStore(ctx, cfg); err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	if rt.offline, err = storage.OpenOffline(cfg.OfflinePath()); err != nil {
		rt.Close()
		return nil, fmt.Errorf("opening offline store: %w", err)
	}

	fetcher := relay.New(relay.Options{
		Relays:  sources.Relays,
		Native:  cfg.NativeFetch,
		Timeout: cfg.FetchTimeout,
	})
	agg := aggregator.New(fetcher, aggregator.Options{
		Feed:    rss.Options{AllowOld: opts.allowOld, MaxAge: cfg.MaxAge},
		Limiter: ratelimit.Courtesy(cfg.SourceDelay),
	})
	rt.imageCache = cache.New[string](cfg.ImageCacheTTL)

	rt.ctrl = app.New(app.Options{
		Sources:     sources.Sources,
		Store:       rt.store,
		Fetcher:     agg,
		Images:      scraper.NewImages(fetcher, rt.imageCache, ratelimit.Courtesy(cfg.ImageScrapeDelay)),
		ImageCache:  rt.imageCache,
		Reader:      scraper.NewArticles(fetcher),
		Offline:     rt.offline,
		CacheMaxAge: cfg.CacheMaxAge,
		Progress:    opts.progress,
	})
	if err := rt.ctrl.Load(ctx); err != nil {
		rt.Close()
		return nil, err
	}
	return rt, nil
}

// summarizer returns the Gemini client when an API key is configured.
func (rt *runtime) summarizer(ctx context.Context) digest.Summarizer {
	if rt.cfg.GeminiAPIKey == "" {
		return nil
	}
	if rt.gemini == nil {
		c, err := gemini.NewClient(ctx, rt.cfg.GeminiAPIKey, ratelimit.NewAIBudget(rt.cfg.MaxGeminiRequests))
		if err != nil {
			log.Printf("⚠️ Gemini disabled: %v", err)
			return nil
		}
		rt.gemini = c
	}
	return rt.gemini
}

func (rt *runtime) Close() {
	if rt.gemini != nil {
		rt.gemini.Close()
	}
	if rt.offline != nil {
		if err := rt.offline.Close(); err != nil {
			log.Printf("⚠️ Closing offline store: %v", err)
		}
	}
	if rt.store != nil {
		if err := rt.store.Close(); err != nil {
			log.Printf("⚠️ Closing store: %v", err)
		}
	}
}

func progressPrinter(completed, total int) {
	fmt.Fprintf(os.Stderr, "\r⏳ %d/%d sources", completed, total)
	if completed == total {
		fmt.Fprintln(os.Stderr)
	}
}
