package main

import (
	"os"

	"github.com/spf13/cobra"

	overlay "github.com/canderson402/layout-builder-sub001"
)

func (a *app) applyCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "apply LAYOUT SCRIPT",
		Short: "Run an edit script against a layout and save it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, l, err := a.loadLayout(args[0])
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			script, err := overlay.LoadEditScript(raw)
			if err != nil {
				return err
			}
			s, err := a.openStore()
			if err != nil {
				return err
			}
			var saveErr error
			results := script.Run(doc, func(tm overlay.Template) {
				if saveErr == nil {
					saveErr = s.Save(tm)
				}
				a.log.Info("template captured", "id", tm.ID, "name", tm.Name)
			})
			if saveErr != nil {
				return saveErr
			}
			applied := 0
			for _, r := range results {
				if r.Applied {
					applied++
				} else {
					a.log.Warn("step not applied", "step", r.Index, "action", r.Action)
				}
			}
			a.log.Info("script done", "steps", script.Len(), "applied", applied)
			if dryRun {
				return nil
			}
			return a.saveLayout(args[0], l, doc)
		},
	}
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "report results without saving")
	return cmd
}
