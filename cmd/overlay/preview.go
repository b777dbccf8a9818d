package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	overlay "github.com/canderson402/layout-builder-sub001"
	"github.com/canderson402/layout-builder-sub001/preview"
	"github.com/canderson402/layout-builder-sub001/store"
)

func (a *app) previewCmd() *cobra.Command {
	var dataPath string
	cmd := &cobra.Command{
		Use:   "preview LAYOUT",
		Short: "Open a live window that reloads the layout, data and templates on change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			layoutPath := filepath.Clean(args[0])
			doc, l, err := a.loadLayout(layoutPath)
			if err != nil {
				return err
			}
			data, err := loadData(dataPath)
			if err != nil {
				return err
			}
			dir, err := a.openStore()
			if err != nil {
				return err
			}
			templates := store.NewMemStore()
			if err := templates.Sync(dir); err != nil {
				return err
			}
			w, h := a.canvasSize(l)
			g := preview.New(doc, data, templates, preview.Options{
				Title:       "overlay preview: " + filepath.Base(layoutPath),
				Canvas:      overlay.Vec2{X: float64(w), Y: float64(h)},
				Background:  a.cfg.Canvas.Background,
				Scale:       a.cfg.Preview.Scale,
				TPS:         a.cfg.Preview.TPS,
				FadeSeconds: a.cfg.FadeSeconds(),
			})

			paths := []string{layoutPath, dir.Dir}
			if dataPath != "" {
				dataPath = filepath.Clean(dataPath)
				paths = append(paths, dataPath)
			}
			watcher, err := store.NewWatcher(paths...)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			go watcher.Run(ctx, func(path string) {
				a.reload(g, path, layoutPath, dataPath, templateReload{dir, templates})
			}, func(err error) {
				a.log.Warn("watch error", "err", err)
			})

			return preview.Run(g)
		},
	}
	cmd.Flags().StringVarP(&dataPath, "data", "d", "", "JSON data file")
	return cmd
}

// templateReload refreshes the preview's in-memory template cache from disk.
type templateReload struct {
	dir   *store.DirStore
	cache *store.MemStore
}

// reload pushes a changed file into the preview. Any other path under the
// watch is a template change and re-syncs the cache.
func (a *app) reload(g *preview.Game, path, layoutPath, dataPath string, tr templateReload) {
	switch path {
	case layoutPath:
		raw, err := os.ReadFile(path)
		if err == nil {
			var l overlay.Layout
			if l, err = overlay.UnmarshalLayout(raw); err == nil {
				g.SetNodes(l.Nodes)
				a.log.Info("layout reloaded", "nodes", len(l.Nodes))
				return
			}
		}
		a.log.Warn("layout reload failed", "err", err)
		g.SetError(err)
	case dataPath:
		data, err := loadData(path)
		if err != nil {
			a.log.Warn("data reload failed", "err", err)
			g.SetError(err)
			return
		}
		g.SetData(data)
		a.log.Debug("data reloaded")
	default:
		if err := tr.cache.Sync(tr.dir); err != nil {
			a.log.Warn("template reload failed", "err", err)
			g.SetError(err)
			return
		}
		a.log.Info("templates reloaded", "path", path)
	}
}
