package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eringen/postbrowser"
	"github.com/eringen/postbrowser/tui"
)

func browseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse posts in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newBrowser(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return tui.Run(m)
		},
	}
	cmd.Flags().String("source", "", "content source: graphql, dir or sqlite")
	cmd.Flags().String("endpoint", "", "GraphQL endpoint URL")
	cmd.Flags().String("dir", "", "content directory for the dir source")
	cmd.Flags().String("database", "", "SQLite mirror for the sqlite source")
	return cmd
}

func newBrowser(ctx context.Context, cfg Config) (tui.Model, error) {
	src, closeSrc, err := newSource(cfg)
	if err != nil {
		return tui.Model{}, err
	}
	defer closeSrc()

	loadCtx, cancel := context.WithTimeout(ctx, cfg.Source.Timeout)
	defer cancel()
	snap, err := src.Load(loadCtx)
	if err != nil {
		return tui.Model{}, fmt.Errorf("load %s source: %w", cfg.Source.Kind, err)
	}
	pres := postbrowser.NewPresenter(snap, cfg.Browse.TrustMarkup)
	ctrl := postbrowser.NewController(snap.Posts, cfg.Browse.PageSize,
		postbrowser.WithPageReset(!cfg.Browse.PreservePageOnFilter),
	)
	return tui.New(snap, pres, ctrl), nil
}
