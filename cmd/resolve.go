package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"snapgrab/internal/config"
	"snapgrab/internal/download"
	"snapgrab/internal/history"
	"snapgrab/internal/httputil"
	"snapgrab/internal/media"
	"snapgrab/internal/platform"
	"snapgrab/internal/snapsave"
	"snapgrab/internal/ui"
	"snapgrab/internal/workflow"
)

func resolveRun(cmd *cobra.Command, args []string) error {
	client := snapsave.NewWithBase(cfg.Base)

	resolver := workflow.New(client)
	if cfg.Debug {
		resolver = workflow.NewWithLogger(client, log.Default())
	}

	ctx := cmd.Context()
	responses := resolver.ResolveAll(ctx, args)

	if flagJSON || !term.IsTerminal(int(os.Stdout.Fd())) {
		return printJSON(responses)
	}

	var store *history.Store
	if cfg.History {
		var err error
		store, err = history.Open(config.DataDir())
		if err != nil {
			debugf("history unavailable: %v", err)
		} else {
			defer store.Close()
		}
	}

	var failed int
	for i, resp := range responses {
		if err := handleResponse(cmd, client, store, args[i], resp); err != nil {
			if err == ui.ErrCancelled {
				return nil
			}
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", args[i], err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d downloads failed", failed, len(args))
	}
	return nil
}

// printJSON writes the resolved responses to stdout. A single URL
// produces a single object rather than a one-element array.
func printJSON(responses []media.Response) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if len(responses) == 1 {
		if err := enc.Encode(responses[0]); err != nil {
			return err
		}
	} else if err := enc.Encode(responses); err != nil {
		return err
	}

	for _, r := range responses {
		if !r.Success {
			return fmt.Errorf("resolution failed")
		}
	}
	return nil
}

// handleResponse downloads the chosen variants for one resolved post.
func handleResponse(cmd *cobra.Command, client *snapsave.Client, store *history.Store, postURL string, resp media.Response) error {
	if !resp.Success {
		return fmt.Errorf("%s", resp.Message)
	}

	chosen, err := chooseMedia(resp.Data)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	outputDir, err := cfg.ExpandDownloadDir()
	if err != nil {
		return fmt.Errorf("resolving download directory: %w", err)
	}

	httpClient := httputil.NewClient()
	for _, d := range chosen {
		if d.ShouldRender {
			debugf("rendering %s", d.URL)
			rendered, err := client.Render(ctx, d.URL)
			if err != nil {
				return fmt.Errorf("rendering media: %w", err)
			}
			d.URL = rendered
			d.ShouldRender = false
		}

		path, err := download.Download(ctx, httpClient, d, outputDir)
		if err != nil {
			return err
		}
		fmt.Printf("✓ %s\n", path)

		if store != nil {
			if _, err := store.Add(ctx, media.HistoryEntry{
				SourceURL: postURL,
				Platform:  platform.Detect(postURL).String(),
				Type:      d.Type,
				File:      path,
			}); err != nil {
				debugf("recording history: %v", err)
			}
		}
	}
	return nil
}

// chooseMedia picks which variants to download. --all takes everything,
// a concrete quality preference short-circuits the picker, and
// otherwise the interactive picker decides.
func chooseMedia(result *media.ExtractionResult) ([]media.Descriptor, error) {
	items := result.Media

	if flagAll {
		return items, nil
	}

	if cfg.Quality != "" && cfg.Quality != "best" {
		for _, d := range items {
			if strings.HasPrefix(d.Resolution, cfg.Quality) {
				return []media.Descriptor{d}, nil
			}
		}
		debugf("no %sp variant available, falling back to picker", cfg.Quality)
	}

	return ui.PickMedia(result.Description, items)
}
