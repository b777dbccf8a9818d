// Command overlay edits and renders broadcast overlay layouts from the
// command line.
//
//	overlay render layout.json -d data.json -o frame.png
//	overlay tree layout.json
//	overlay layers layout.json
//	overlay capture layout.json -n "player card" id1 id2
//	overlay templates list
//	overlay apply layout.json script.json
//	overlay preview layout.json -d data.json
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	overlay "github.com/canderson402/layout-builder-sub001"
	"github.com/canderson402/layout-builder-sub001/config"
	"github.com/canderson402/layout-builder-sub001/store"
)

// app carries state shared by every subcommand.
type app struct {
	configPath string
	debug      bool

	cfg config.Config
	log *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "overlay",
		Short:        "Compose and render layered broadcast overlays",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "overlay.toml", "configuration file")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "log document diagnostics")

	root.AddCommand(
		a.renderCmd(),
		a.treeCmd(),
		a.layersCmd(),
		a.captureCmd(),
		a.templatesCmd(),
		a.applyCmd(),
		a.previewCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.debug {
		cfg.Debug = true
	}
	a.cfg = cfg

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

// loadLayout reads a layout file into a document with debug mode set from
// the configuration.
func (a *app) loadLayout(path string) (*overlay.Document, overlay.Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, overlay.Layout{}, err
	}
	l, err := overlay.UnmarshalLayout(data)
	if err != nil {
		return nil, overlay.Layout{}, fmt.Errorf("%s: %w", path, err)
	}
	doc := overlay.NewDocument(l.Nodes)
	doc.SetDebugMode(a.cfg.Debug)
	a.log.Debug("layout loaded", "path", path, "nodes", len(l.Nodes), "version", l.Version)
	return doc, l, nil
}

// saveLayout writes the document back to path, keeping the layout header.
func (a *app) saveLayout(path string, l overlay.Layout, doc *overlay.Document) error {
	l.Nodes = doc.Nodes()
	data, err := overlay.MarshalLayout(l)
	if err != nil {
		return err
	}
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	a.log.Debug("layout saved", "path", path, "nodes", len(l.Nodes), "version", doc.Version())
	return nil
}

// loadData reads a JSON data object. An empty path yields nil data, under
// which every binding is unresolved.
func loadData(path string) (any, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse data %s: %w", path, err)
	}
	return data, nil
}

func (a *app) openStore() (*store.DirStore, error) {
	s, err := store.NewDirStore(a.cfg.Templates.Dir)
	if err != nil {
		return nil, err
	}
	a.log.Debug("template store", "dir", s.Dir)
	return s, nil
}

// canvasSize returns the layout's canvas, falling back to the configured one.
func (a *app) canvasSize(l overlay.Layout) (int, int) {
	if l.Canvas.X > 0 && l.Canvas.Y > 0 {
		return int(l.Canvas.X), int(l.Canvas.Y)
	}
	return a.cfg.Canvas.Width, a.cfg.Canvas.Height
}
