package main

import (
	"fmt"

	"github.com/eringen/postbrowser"
	"github.com/eringen/postbrowser/contentdir"
	"github.com/eringen/postbrowser/wpgraphql"
)

// closer is returned alongside a source that holds resources.
type closer func() error

func noClose() error { return nil }

// newSource builds the ContentSource named by source.kind.
func newSource(cfg Config) (postbrowser.ContentSource, closer, error) {
	switch cfg.Source.Kind {
	case "graphql":
		if cfg.Source.Endpoint == "" {
			return nil, noClose, fmt.Errorf("source.endpoint is required for the graphql source")
		}
		return wpgraphql.New(cfg.Source.Endpoint,
			wpgraphql.WithMaxPosts(cfg.Source.MaxPosts),
			wpgraphql.WithTimeout(cfg.Source.Timeout),
		), noClose, nil
	case "dir":
		return contentdir.New(cfg.Source.Dir), noClose, nil
	case "sqlite":
		store, err := postbrowser.NewStore(cfg.Source.Database)
		if err != nil {
			return nil, noClose, err
		}
		return store, store.Close, nil
	default:
		return nil, noClose, fmt.Errorf("unknown source kind %q (want graphql, dir or sqlite)", cfg.Source.Kind)
	}
}
