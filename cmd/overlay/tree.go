package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	overlay "github.com/canderson402/layout-builder-sub001"
)

var (
	nameStyle   = lipgloss.NewStyle().Bold(true)
	kindStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	hiddenStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Strikethrough(true)
)

func (a *app) treeCmd() *cobra.Command {
	var dataPath string
	cmd := &cobra.Command{
		Use:   "tree LAYOUT",
		Short: "Print the layer tree in panel order with effective keys",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := a.loadLayout(args[0])
			if err != nil {
				return err
			}
			data, err := loadData(dataPath)
			if err != nil {
				return err
			}
			writeTree(cmd.OutOrStdout(), doc.Tree(), data)
			return nil
		},
	}
	cmd.Flags().StringVarP(&dataPath, "data", "d", "", "JSON data file for visibility bindings")
	return cmd
}

// writeTree prints one line per node, front-most sibling first, with its
// effective key.
func writeTree(w io.Writer, t *overlay.Tree, data any) {
	visible := make(map[overlay.NodeID]bool)
	for _, it := range t.Evaluate(data) {
		visible[it.Node.ID] = it.Visible && it.Shown
	}
	for _, row := range t.FlattenedDisplayOrder(nil) {
		fmt.Fprintln(w, treeLine(t, row, visible[row.ID]))
	}
}

func treeLine(t *overlay.Tree, row overlay.FlatEntry, visible bool) string {
	n, _ := t.Node(row.ID)
	name := nameStyle.Render(n.Name)
	if !visible {
		name = hiddenStyle.Render(n.Name)
	}
	return fmt.Sprintf("%s%s %s %s",
		strings.Repeat("  ", row.Depth),
		name,
		kindStyle.Render(n.Kind.String()),
		keyStyle.Render(fmt.Sprintf("[%d] %s", t.EffectiveLayer(row.ID), row.ID)),
	)
}
