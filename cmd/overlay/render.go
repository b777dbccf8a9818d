package main

import (
	"github.com/spf13/cobra"

	"github.com/canderson402/layout-builder-sub001/snapshot"
)

func (a *app) renderCmd() *cobra.Command {
	var dataPath, out, font string
	cmd := &cobra.Command{
		Use:   "render LAYOUT",
		Short: "Rasterize a layout against a data file to PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, l, err := a.loadLayout(args[0])
			if err != nil {
				return err
			}
			data, err := loadData(dataPath)
			if err != nil {
				return err
			}
			src, err := a.openStore()
			if err != nil {
				return err
			}
			frame := doc.Evaluate(data, src)
			for _, id := range frame.Missing {
				a.log.Warn("slot list template missing", "node", id)
			}
			w, h := a.canvasSize(l)
			r := snapshot.NewRenderer(w, h, a.cfg.Canvas.Background, font)
			if err := r.Draw(frame.Items, data); err != nil {
				return err
			}
			if err := r.SavePNG(out); err != nil {
				return err
			}
			a.log.Info("rendered", "out", out, "items", len(frame.Visible()), "width", w, "height", h)
			return nil
		},
	}
	cmd.Flags().StringVarP(&dataPath, "data", "d", "", "JSON data file")
	cmd.Flags().StringVarP(&out, "out", "o", "overlay.png", "output PNG")
	cmd.Flags().StringVar(&font, "font", "", "TrueType font for text")
	return cmd
}
