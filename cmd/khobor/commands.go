package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/deusflow/khobor/internal/app"
	"github.com/deusflow/khobor/internal/cluster"
	"github.com/deusflow/khobor/internal/logger"
	"github.com/deusflow/khobor/internal/merge"
)

var (
	flagCategory   string
	flagQuery      string
	flagSource     string
	flagPage       int
	flagBookmarked bool
	flagUnread     bool
	flagAllowOld   bool
	flagRefresh    bool
	flagLimit      int
)

func init() {
	fetchCmd.Flags().StringVarP(&flagCategory, "category", "c", app.AllCategories, "category filter")
	fetchCmd.Flags().StringVarP(&flagQuery, "query", "q", "", "match title or source name")
	fetchCmd.Flags().StringVar(&flagSource, "source", "", "only this source id")
	fetchCmd.Flags().IntVarP(&flagPage, "page", "p", 1, "show pages 1..N")
	fetchCmd.Flags().BoolVar(&flagBookmarked, "bookmarked", false, "only bookmarked articles")
	fetchCmd.Flags().BoolVar(&flagUnread, "unread", false, "only unread articles")
	fetchCmd.Flags().BoolVar(&flagAllowOld, "allow-old", false, "keep feed items older than MAX_AGE_DAYS")

	clustersCmd.Flags().BoolVar(&flagRefresh, "refresh", false, "fetch before clustering")
	clustersCmd.Flags().StringVarP(&flagCategory, "category", "c", app.AllCategories, "category filter")
	trendingCmd.Flags().IntVarP(&flagLimit, "limit", "n", cluster.DefaultTrendingLimit, "number of topics")
	digestCmd.Flags().BoolVar(&flagRefresh, "refresh", false, "fetch before building the digest")

	offlineCmd.AddCommand(offlineListCmd, offlineSaveCmd, offlineRemoveCmd)
	rootCmd.AddCommand(fetchCmd, watchCmd, clustersCmd, trendingCmd, digestCmd, openCmd, bookmarkCmd, offlineCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch all sources, merge and list articles",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := setup(ctx, setupOptions{allowOld: flagAllowOld, progress: progressPrinter})
		if err != nil {
			return err
		}
		defer rt.Close()

		if _, err := rt.ctrl.Refresh(ctx, merge.Manual); err != nil {
			if !errors.Is(err, app.ErrNothingFetched) {
				return err
			}
			log.Printf("⚠️ %v, showing cached news", err)
		}

		page := rt.ctrl.View(app.Filter{
			Category:       flagCategory,
			Query:          flagQuery,
			SourceID:       flagSource,
			BookmarkedOnly: flagBookmarked,
			UnreadOnly:     flagUnread,
		}, flagPage, rt.cfg.ItemsPerPage)
		if flagJSON {
			return writeJSON(os.Stdout, page)
		}
		printPage(os.Stdout, page, rt.ctrl, time.Now())
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Refresh in the background until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		rt, err := setup(ctx, setupOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()

		if rt.cfg.EnableHTTPMonitoring {
			srv := startMonitoringServer(rt.cfg.MonitoringPort)
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()
		}
		rt.imageCache.StartJanitor(ctx, time.Hour)

		if _, err := rt.ctrl.Refresh(ctx, merge.Manual); err != nil {
			log.Printf("⚠️ Initial refresh: %v", err)
		}
		logger.Info("watching", "sources", len(rt.sources.Sources), "interval", rt.cfg.AutoRefreshInterval)

		err = rt.ctrl.Run(ctx, rt.cfg.AutoRefreshInterval)
		if errors.Is(err, context.Canceled) {
			logger.Info("stopped")
			return nil
		}
		return err
	},
}

var clustersCmd = &cobra.Command{
	Use:   "clusters",
	Short: "Group cached articles into stories",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := setup(ctx, setupOptions{progress: progressPrinter})
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := maybeRefresh(ctx, rt); err != nil {
			return err
		}
		clusters := rt.ctrl.Clusters(app.Filter{Category: flagCategory}, rt.cfg.ClusterThreshold)
		if flagJSON {
			return writeJSON(os.Stdout, clusters)
		}
		printClusters(os.Stdout, clusters)
		return nil
	},
}

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Show the most repeated words in cached headlines",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd.Context(), setupOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()

		topics := rt.ctrl.Trending(flagLimit)
		if flagJSON {
			return writeJSON(os.Stdout, topics)
		}
		printTopics(os.Stdout, topics)
		return nil
	},
}

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Top stories per category, summarized when GEMINI_API_KEY is set",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := setup(ctx, setupOptions{progress: progressPrinter})
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := maybeRefresh(ctx, rt); err != nil {
			return err
		}
		d := rt.ctrl.Digest(ctx, rt.summarizer(ctx))
		if flagJSON {
			return writeJSON(os.Stdout, d)
		}
		printDigest(os.Stdout, d)
		return nil
	},
}

var openCmd = &cobra.Command{
	Use:   "open <id>",
	Short: "Mark an article read and print it in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := setup(ctx, setupOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()

		if _, err := rt.ctrl.Open(ctx, args[0]); err != nil {
			return err
		}
		full, err := rt.ctrl.ReadFull(ctx, args[0])
		if err != nil {
			return err
		}
		related, _ := rt.ctrl.Related(args[0], 4)
		if flagJSON {
			return writeJSON(os.Stdout, map[string]interface{}{"article": full, "related": related})
		}
		printArticle(os.Stdout, full, related)
		return nil
	},
}

var bookmarkCmd = &cobra.Command{
	Use:   "bookmark <id>",
	Short: "Toggle a bookmark",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd.Context(), setupOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()

		on, err := rt.ctrl.ToggleBookmark(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if on {
			fmt.Println("🔖 Bookmarked", args[0])
		} else {
			fmt.Println("Removed bookmark", args[0])
		}
		return nil
	},
}

var offlineCmd = &cobra.Command{
	Use:   "offline",
	Short: "Manage articles saved for offline reading",
}

var offlineListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved articles, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd.Context(), setupOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()

		saved, err := rt.ctrl.OfflineArticles(cmd.Context())
		if err != nil {
			return err
		}
		if flagJSON {
			return writeJSON(os.Stdout, saved)
		}
		printSaved(os.Stdout, saved)
		return nil
	},
}

var offlineSaveCmd = &cobra.Command{
	Use:   "save <id>",
	Short: "Save an article with its full text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd.Context(), setupOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()

		saved, err := rt.ctrl.SaveOffline(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("💾 Saved %q\n", saved.Title)
		return nil
	},
}

var offlineRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Delete a saved article",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd.Context(), setupOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()
		return rt.ctrl.RemoveOffline(cmd.Context(), args[0])
	},
}

func maybeRefresh(ctx context.Context, rt *runtime) error {
	if !flagRefresh && len(rt.ctrl.Articles()) > 0 {
		return nil
	}
	_, err := rt.ctrl.Refresh(ctx, merge.Manual)
	if errors.Is(err, app.ErrNothingFetched) {
		log.Printf("⚠️ %v", err)
		return nil
	}
	return err
}
