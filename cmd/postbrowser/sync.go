package main

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/spf13/cobra"

	"github.com/eringen/postbrowser"
)

func syncCmd() *cobra.Command {
	var (
		imageDir    string
		imagePrefix string
		out         string
	)
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Copy the content source into a local SQLite mirror",
		Long: `sync loads the configured graphql or dir source and replaces the
contents of the SQLite mirror with it. With --mirror-images, featured
images are downloaded, scaled to at most 800px wide and served from the
static directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				out = cfg.Source.Database
			}
			return runSync(cmd.Context(), cfg, out, imageDir, imagePrefix)
		},
	}
	cmd.Flags().String("source", "", "content source: graphql or dir")
	cmd.Flags().String("endpoint", "", "GraphQL endpoint URL")
	cmd.Flags().String("dir", "", "content directory for the dir source")
	cmd.Flags().StringVarP(&out, "out", "o", "", "SQLite mirror to write (default source.database)")
	cmd.Flags().StringVar(&imageDir, "mirror-images", "", "download featured images into this directory")
	cmd.Flags().StringVar(&imagePrefix, "image-prefix", "/public/images", "URL prefix the mirrored images are served under")
	return cmd
}

func runSync(ctx context.Context, cfg Config, out, imageDir, imagePrefix string) error {
	if cfg.Source.Kind == "sqlite" {
		return fmt.Errorf("sync reads from a graphql or dir source, not sqlite")
	}
	src, closeSrc, err := newSource(cfg)
	if err != nil {
		return err
	}
	defer closeSrc()

	loadCtx, cancel := context.WithTimeout(ctx, cfg.Source.Timeout)
	defer cancel()
	snap, err := src.Load(loadCtx)
	if err != nil {
		return fmt.Errorf("load %s source: %w", cfg.Source.Kind, err)
	}
	info("Loaded %d posts, %d categories, %d tags", len(snap.Posts), len(snap.Categories), len(snap.Tags))

	if imageDir != "" {
		client := &http.Client{Timeout: cfg.Source.Timeout}
		mirrored, res, err := postbrowser.MirrorImages(ctx, client, snap, imageDir, imagePrefix)
		if err != nil {
			return err
		}
		snap = mirrored
		success("Mirrored %d images into %s", res.Mirrored, imageDir)
		slugs := make([]string, 0, len(res.Failed))
		for slug := range res.Failed {
			slugs = append(slugs, slug)
		}
		sort.Strings(slugs)
		for _, slug := range slugs {
			warning("image for %s: %v", slug, res.Failed[slug])
		}
	}

	store, err := postbrowser.NewStore(out)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.SaveSnapshot(ctx, snap); err != nil {
		return err
	}
	success("Wrote %s", out)
	return nil
}
