// Package download saves resolved media files over HTTP. Output paths
// are validated against directory traversal before anything is written.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"snapgrab/internal/httputil"
	"snapgrab/internal/media"
)

// fallbackName picks a default filename when the media URL has no
// useful base name.
func fallbackName(t media.Type) string {
	if t == media.Image {
		return "photo.jpg"
	}
	return "video.mp4"
}

// Download fetches one media descriptor to a local file under outputDir
// and returns the written path. The descriptor's URL must already be
// rendered; ShouldRender entries are the caller's job to resolve first.
func Download(ctx context.Context, client *http.Client, d media.Descriptor, outputDir string) (string, error) {
	if d.ShouldRender {
		return "", fmt.Errorf("descriptor %q still needs rendering", d.URL)
	}

	absDir, err := filepath.Abs(outputDir)
	if err != nil {
		return "", fmt.Errorf("resolving output directory: %w", err)
	}
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	filename := httputil.FilenameFromURL(d.URL, fallbackName(d.Type))
	outputPath, err := httputil.SafeDownloadPath(absDir, filename)
	if err != nil {
		return "", fmt.Errorf("invalid output path: %w", err)
	}
	outputPath = uniquePath(outputPath)

	resp, err := httputil.Get(ctx, client, d.URL)
	if err != nil {
		return "", fmt.Errorf("fetching media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("media server returned status %d", resp.StatusCode)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("creating output file: %w", err)
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(outputPath)
		return "", fmt.Errorf("writing %s: %w", outputPath, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(outputPath)
		return "", fmt.Errorf("closing %s: %w", outputPath, err)
	}

	return outputPath, nil
}

// uniquePath appends a numeric suffix when the target already exists,
// so repeated downloads of the same post don't clobber earlier files.
func uniquePath(p string) string {
	if _, err := os.Stat(p); os.IsNotExist(err) {
		return p
	}

	ext := filepath.Ext(p)
	stem := p[:len(p)-len(ext)]
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d%s", stem, i, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}
