package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (a *app) templatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Manage the template library",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved templates, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			list, err := s.List()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tNODES\tSLOT\tCREATED")
			for _, tm := range list {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%gx%g\t%s\n", tm.ID, tm.Name, len(tm.Nodes),
					tm.SlotSize.X, tm.SlotSize.Y, tm.Created.Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		},
	}, &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a saved template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			if err := s.Delete(args[0]); err != nil {
				return err
			}
			a.log.Info("template deleted", "id", args[0])
			return nil
		},
	})
	return cmd
}
