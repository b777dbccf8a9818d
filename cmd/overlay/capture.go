package main

import (
	"fmt"

	"github.com/spf13/cobra"

	overlay "github.com/canderson402/layout-builder-sub001"
)

func (a *app) captureCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "capture LAYOUT ID...",
		Short: "Save the selected nodes of a layout as a reusable template",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := a.loadLayout(args[0])
			if err != nil {
				return err
			}
			sel := make([]overlay.NodeID, 0, len(args)-1)
			for _, id := range args[1:] {
				sel = append(sel, overlay.NodeID(id))
			}
			tm := doc.Capture(sel, name)
			if len(tm.Nodes) == 0 {
				a.log.Warn("selection matched no nodes", "ids", args[1:])
			}
			s, err := a.openStore()
			if err != nil {
				return err
			}
			if err := s.Save(tm); err != nil {
				return err
			}
			a.log.Info("template saved", "id", tm.ID, "name", tm.Name, "nodes", len(tm.Nodes),
				"slot", tm.SlotSize)
			fmt.Fprintln(cmd.OutOrStdout(), tm.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "template", "template name")
	return cmd
}
