package embedcmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/webbundle/embedh"
	"github.com/webbundle/embedh/cmd/embedh/embedcmd/watcher"
)

func NewEmbed(log *slog.Logger, stdout io.Writer, args Arguments) (e *Embed) {
	e = &Embed{
		Log:    log,
		Stdout: stdout,
		Args:   &args,
	}
	if e.Args.WorkerCount == 0 {
		e.Args.WorkerCount = runtime.NumCPU()
	}
	// Default to atomic writes so a failed run never leaves a truncated header.
	if e.Args.FileWriter == nil {
		e.Args.FileWriter = AtomicFileWriter
	}
	return e
}

type Embed struct {
	Log    *slog.Logger
	Stdout io.Writer
	Args   *Arguments
}

func (cmd Embed) Run(ctx context.Context) (err error) {
	assets, err := cmd.resolveAssets()
	if err != nil {
		return err
	}

	p := newProcessor(cmd.Log, cmd.Stdout, cmd.Args.FileWriter)

	if cmd.Args.Watch {
		return cmd.watch(ctx, p, assets)
	}
	return cmd.generateAll(ctx, p, assets)
}

// resolveAssets turns the arguments into the list of assets to embed, either
// the single src/dst pair or the manifest contents, and fills in derived
// guard and constant names where no override was given.
func (cmd Embed) resolveAssets() ([]Asset, error) {
	var assets []Asset
	if cmd.Args.Manifest != "" {
		m, err := LoadManifest(cmd.Args.Manifest)
		if err != nil {
			return nil, err
		}
		assets = m.Assets
	} else {
		assets = []Asset{{
			Source: cmd.Args.Source,
			Dest:   cmd.Args.Dest,
			Guard:  cmd.Args.GuardName,
			Const:  cmd.Args.ConstName,
		}}
	}
	for i := range assets {
		if assets[i].Guard == "" {
			assets[i].Guard = embedh.GuardName(assets[i].Dest)
		}
		if assets[i].Const == "" {
			assets[i].Const = embedh.ConstName(assets[i].Source)
		}
	}
	return assets, nil
}

func (cmd Embed) generateAll(ctx context.Context, p *processor, assets []Asset) error {
	// If we're processing a single asset, don't bother setting up the pool.
	if len(assets) == 1 {
		return p.Process(ctx, assets[0])
	}

	start := time.Now()
	var wg sync.WaitGroup
	var errorCount atomic.Int64
	sem := make(chan struct{}, cmd.Args.WorkerCount)
	for _, a := range assets {
		wg.Add(1)
		sem <- struct{}{}
		go func(a Asset) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := p.Process(ctx, a); err != nil {
				cmd.Log.Error("Failed to embed asset",
					slog.String("src", a.Source),
					slog.Any("error", err),
				)
				errorCount.Add(1)
			}
		}(a)
	}
	wg.Wait()

	if n := errorCount.Load(); n > 0 {
		return fmt.Errorf("embedding completed with %d errors", n)
	}
	cmd.Log.Debug("Complete",
		slog.Int("assets", len(assets)),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

func (cmd Embed) watch(ctx context.Context, p *processor, assets []Asset) error {
	bySource := make(map[string][]Asset, len(assets))
	sources := make([]string, 0, len(assets))
	for _, a := range assets {
		abs, err := filepath.Abs(a.Source)
		if err != nil {
			return fmt.Errorf("failed to get absolute path for %q: %w", a.Source, err)
		}
		if len(bySource[abs]) == 0 {
			sources = append(sources, abs)
		}
		bySource[abs] = append(bySource[abs], a)
	}

	// Initial pass so every header exists before the first change arrives.
	// Failures here are worth staying alive for; the next save may fix them.
	if err := cmd.generateAll(ctx, p, assets); err != nil {
		cmd.Log.Error("Initial generation failed", slog.Any("error", err))
	}

	events := make(chan fsnotify.Event)
	errs := make(chan error)
	sw, err := watcher.Sources(ctx, sources, events, errs)
	if err != nil {
		return fmt.Errorf("failed to watch sources: %w", err)
	}
	cmd.Log.Info("Watching sources", slog.Int("files", len(sources)))

	for {
		select {
		case <-ctx.Done():
			cmd.Log.Debug("Context cancelled, closing watcher")
			if err := sw.Close(); err != nil {
				cmd.Log.Error("Failed to close watcher", slog.Any("error", err))
			}
			return nil
		case err := <-errs:
			cmd.Log.Error("Watch error", slog.Any("error", err))
		case event := <-events:
			if _, updated := p.UpsertLastModTime(event.Name); !updated {
				cmd.Log.Debug("Skipping event, file not updated", slog.String("file", event.Name))
				continue
			}
			for _, a := range bySource[event.Name] {
				if err := p.Process(ctx, a); err != nil {
					cmd.Log.Error("Failed to embed asset",
						slog.String("src", a.Source),
						slog.Any("error", err),
					)
				}
			}
		}
	}
}
