package gen

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"
)

// Result describes a generation run.
type Result struct {
	// Written lists the generated files, relative to the target.
	Written []string
	// Removed lists files of types no longer configured.
	Removed []string
	// Skipped is true when the target was already up to date.
	Skipped bool
}

// Generate validates cfg and generates its types.
func Generate(ctx context.Context, cfg *Config) (*Result, error) {
	g, err := NewGraph(cfg)
	if err != nil {
		return nil, err
	}
	return g.Gen(ctx)
}

// Gen writes one file per type to the target directory in parallel. When
// the stored snapshot matches the graph and every file exists, nothing is
// written unless Force is set.
func (g *Graph) Gen(ctx context.Context) (*Result, error) {
	log := g.logger()
	snap := g.Snapshot()
	data, err := snap.Encode()
	if err != nil {
		return nil, NewGenerationError("snapshot", SnapshotFile, "encode", err)
	}
	prev, prevData, err := ReadSnapshot(g.Target)
	if err != nil {
		return nil, err
	}
	if !g.Force && prev != nil && bytes.Equal(prevData, data) && g.complete() {
		log.InfoContext(ctx, "generated code is up to date", "target", g.Target)
		return &Result{Skipped: true}, nil
	}
	if err := os.MkdirAll(g.Target, 0o755); err != nil {
		return nil, NewGenerationError("write", g.Target, "create target directory", err)
	}

	workers := g.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	var (
		res = &Result{}
		mu  sync.Mutex
	)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for _, t := range g.Nodes {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if err := g.writeType(t); err != nil {
				return err
			}
			mu.Lock()
			res.Written = append(res.Written, t.File)
			mu.Unlock()
			log.DebugContext(ctx, "file written", "file", t.File, "fields", len(t.Fields))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	slices.Sort(res.Written)

	if prev != nil {
		for _, name := range prev.Files() {
			if slices.Contains(res.Written, name) {
				continue
			}
			err := os.Remove(filepath.Join(g.Target, name))
			switch {
			case errors.Is(err, fs.ErrNotExist):
			case err != nil:
				return nil, NewGenerationError("write", name, "remove stale file", err)
			default:
				res.Removed = append(res.Removed, name)
				log.InfoContext(ctx, "stale file removed", "file", name)
			}
		}
	}
	if err := writeSnapshot(g.Target, data); err != nil {
		return nil, err
	}
	log.InfoContext(ctx, "generated code", "target", g.Target, "files", len(res.Written))
	return res, nil
}

// writeType renders, formats and writes the file of t.
func (g *Graph) writeType(t *Type) error {
	src, err := g.Render(t)
	if err != nil {
		return err
	}
	path := filepath.Join(g.Target, t.File)
	formatted, err := imports.Process(path, src, nil)
	if err != nil {
		// Keep the unformatted source next to the target for debugging.
		debugPath := path + ".error"
		_ = os.WriteFile(debugPath, src, 0o644)
		return NewGenerationError("format", t.File, "unformatted source written to "+debugPath, err)
	}
	if err := os.WriteFile(path, formatted, 0o644); err != nil {
		return NewGenerationError("write", t.File, "", err)
	}
	return nil
}

func (g *Graph) complete() bool {
	for _, t := range g.Nodes {
		if _, err := os.Stat(filepath.Join(g.Target, t.File)); err != nil {
			return false
		}
	}
	return true
}
