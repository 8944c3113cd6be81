package postbrowser

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"golang.org/x/image/draw"
)

const (
	maxImageWidth = 800
	jpegQuality   = 80
	maxImageSize  = 10 << 20 // 10MB
)

// MirrorResult reports what MirrorImages did.
type MirrorResult struct {
	Mirrored int
	Failed   map[string]error // slug -> error
}

// MirrorImages downloads every post's featured image into dir as a JPEG no
// wider than 800px and returns a copy of snap whose image URLs point at
// urlPrefix. Posts whose image cannot be fetched keep their original URL.
func MirrorImages(ctx context.Context, client *http.Client, snap Snapshot, dir, urlPrefix string) (Snapshot, MirrorResult, error) {
	if client == nil {
		client = http.DefaultClient
	}
	res := MirrorResult{Failed: make(map[string]error)}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return snap, res, fmt.Errorf("create image dir: %w", err)
	}

	out := snap
	out.Posts = make([]Post, len(snap.Posts))
	copy(out.Posts, snap.Posts)

	for i, p := range out.Posts {
		if p.FeaturedImageURL == "" || p.Slug == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return snap, res, err
		}
		data, err := fetchImage(ctx, client, p.FeaturedImageURL)
		if err != nil {
			res.Failed[p.Slug] = err
			continue
		}
		encoded, err := processImage(bytes.NewReader(data))
		if err != nil {
			res.Failed[p.Slug] = err
			continue
		}
		filename := Slugify(p.Slug) + ".jpg"
		if err := os.WriteFile(filepath.Join(dir, filename), encoded, 0o644); err != nil {
			return snap, res, fmt.Errorf("write image: %w", err)
		}
		out.Posts[i].FeaturedImageURL = path.Join("/", urlPrefix, filename)
		res.Mirrored++
	}
	return out, res, nil
}

func fetchImage(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image: status %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxImageSize {
		return nil, fmt.Errorf("image too large (max 10MB)")
	}
	return data, nil
}

// processImage decodes an image from src, resizes it to maxImageWidth when
// wider, and encodes it as JPEG.
func processImage(src io.Reader) ([]byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
