package postbrowser

import "embed"

// EmbeddedAssets contains static assets shipped with the package:
// browse.js, the progressive-enhancement script for the index.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
