package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/postbrowser"
	"github.com/eringen/postbrowser/contentdir"
	"github.com/eringen/postbrowser/views"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the post index over HTTP",
		Long: `serve loads the configured content source once and serves the
searchable index. With --watch and a dir source, edits to the content
directory are picked up without a restart.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}
	cmd.Flags().String("addr", "", "listen address (default :3000)")
	cmd.Flags().String("source", "", "content source: graphql, dir or sqlite")
	cmd.Flags().String("endpoint", "", "GraphQL endpoint URL")
	cmd.Flags().String("dir", "", "content directory for the dir source")
	cmd.Flags().String("database", "", "SQLite mirror for the sqlite source")
	cmd.Flags().Bool("watch", false, "reload a dir source when files change")
	return cmd
}

func runServe(ctx context.Context, cfg Config) error {
	if cfg.Server.SessionSecret == "" {
		return fmt.Errorf("server.session_secret is required (set POSTBROWSER_SERVER_SESSION_SECRET)")
	}
	src, closeSrc, err := newSource(cfg)
	if err != nil {
		return err
	}
	defer closeSrc()

	holder := postbrowser.NewSnapshotHolder(cfg.Browse.TrustMarkup)
	app := postbrowser.New(cfg.siteConfig(), src, views.Funcs(),
		postbrowser.WithSnapshotHolder(holder),
		postbrowser.WithStaticDir(cfg.Server.StaticDir),
	)
	if cfg.Source.Watch {
		dir, ok := src.(*contentdir.Source)
		if !ok {
			warning("--watch only applies to the dir source; ignoring")
		} else {
			go func() {
				err := dir.Watch(ctx, func(snap postbrowser.Snapshot, err error) {
					if err != nil {
						app.Echo.Logger.Errorf("reload %s: %v", dir.Dir(), err)
						return
					}
					app.ReplaceSnapshot(snap)
				})
				if err != nil {
					app.Echo.Logger.Errorf("watch %s: %v", dir.Dir(), err)
				}
			}()
			info("Watching %s for changes", dir.Dir())
		}
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Start(ctx)
	}()
	info("Starting on %s", app.Config.URL)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	info("Server stopped")
	return nil
}
