package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	overlay "github.com/canderson402/layout-builder-sub001"
)

func (a *app) layersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "layers LAYOUT",
		Short: "Interactive layer panel: reorder, reparent, delete and undo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, l, err := a.loadLayout(args[0])
			if err != nil {
				return err
			}
			m := newLayersModel(doc, func() error { return a.saveLayout(args[0], l, doc) })
			_, err = tea.NewProgram(m).Run()
			return err
		},
	}
}

// Styles for the layer panel.
var (
	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	sourceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	targetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

const layersHelp = "j/k move  space fold  m drag  b/a/i before/after/into  r root  enter drop  esc cancel\n" +
	"d delete  D duplicate  t toggle  u undo  U redo  w save  q quit"

// layersModel is the layer panel. The cursor doubles as the pointer during a
// drag: moving it hovers the row under it with the current intent.
type layersModel struct {
	doc       *overlay.Document
	save      func() error
	collapsed map[overlay.NodeID]bool
	rows      []overlay.FlatEntry
	cursor    int

	gesture overlay.Gesture
	intent  overlay.DropIntent

	pendingDelete overlay.NodeID
	status        string
}

func newLayersModel(doc *overlay.Document, save func() error) *layersModel {
	m := &layersModel{doc: doc, save: save, collapsed: make(map[overlay.NodeID]bool)}
	m.refresh()
	return m
}

// refresh rebuilds the visible rows and keeps the cursor in range.
func (m *layersModel) refresh() {
	m.rows = m.doc.Tree().FlattenedDisplayOrder(m.collapsed)
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *layersModel) current() (overlay.NodeID, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return "", false
	}
	return m.rows[m.cursor].ID, true
}

func (m *layersModel) dragging() bool {
	s := m.gesture.State()
	return s == overlay.GestureDragging || s == overlay.GestureHovering
}

// hover points the gesture at the row under the cursor.
func (m *layersModel) hover() {
	if !m.dragging() {
		return
	}
	id, ok := m.current()
	if !ok || !m.gesture.Hover(m.doc.Tree(), id, m.intent) {
		m.gesture.Leave()
	}
}

func (m *layersModel) Init() tea.Cmd { return nil }

func (m *layersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.pendingDelete != "" {
		if key.String() == "y" {
			m.doc.Delete(m.pendingDelete, nil)
			m.status = "deleted " + string(m.pendingDelete)
		} else {
			m.status = "delete cancelled"
		}
		m.pendingDelete = ""
		m.refresh()
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		m.hover()
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
		m.hover()
	case " ":
		if id, ok := m.current(); ok && m.rows[m.cursor].HasChildren {
			m.collapsed[id] = !m.collapsed[id]
			m.refresh()
		}
	case "m":
		if id, ok := m.current(); ok {
			m.gesture.Start(id)
			m.intent = overlay.DropBefore
			m.status = "dragging " + string(id)
		}
	case "b", "a", "i":
		m.intent, _ = overlay.ParseDropIntent(map[string]string{"b": "before", "a": "after", "i": "into"}[key.String()])
		m.hover()
	case "r":
		if m.dragging() {
			m.gesture.HoverRoot()
		}
	case "enter":
		if m.dragging() {
			src := m.gesture.Source()
			if m.doc.DropGesture(&m.gesture) {
				m.status = "moved " + string(src)
			} else {
				m.status = "drop cancelled"
			}
			m.refresh()
		}
	case "esc":
		if m.dragging() {
			m.gesture.Cancel()
			m.status = "drag cancelled"
		}
	case "d":
		if id, ok := m.current(); ok {
			m.delete(id)
		}
	case "D":
		if id, ok := m.current(); ok {
			if ids := m.doc.Duplicate(id); len(ids) > 0 {
				m.status = fmt.Sprintf("duplicated %d nodes", len(ids))
			}
			m.refresh()
		}
	case "t":
		if id, ok := m.current(); ok {
			if m.doc.FlipToggle(id) {
				m.status = "toggled " + string(id)
			}
		}
	case "u":
		if m.doc.Undo() {
			m.status = "undo"
		}
		m.refresh()
	case "U", "ctrl+r":
		if m.doc.Redo() {
			m.status = "redo"
		}
		m.refresh()
	case "w":
		if err := m.save(); err != nil {
			m.status = "save failed: " + err.Error()
		} else {
			m.status = fmt.Sprintf("saved v%d", m.doc.Version())
		}
	}
	return m, nil
}

// delete removes id, asking first when it is a group with children.
func (m *layersModel) delete(id overlay.NodeID) {
	deleted := m.doc.Delete(id, func(group overlay.Node, descendants int) bool {
		m.pendingDelete = id
		m.status = fmt.Sprintf("delete group %q and %d children? y/n", group.Name, descendants)
		return false
	})
	if deleted {
		m.status = "deleted " + string(id)
	}
	m.refresh()
}

func (m *layersModel) View() string {
	t := m.doc.Tree()
	target, intent, hovering := m.gesture.Target()
	var b strings.Builder
	for i, row := range m.rows {
		n, _ := t.Node(row.ID)
		fold := "  "
		if row.HasChildren {
			fold = "▾ "
			if m.collapsed[row.ID] {
				fold = "▸ "
			}
		}
		line := strings.Repeat("  ", row.Depth) + fold + n.Name + " " + kindStyle.Render(n.Kind.String())
		switch {
		case m.dragging() && row.ID == m.gesture.Source():
			line = sourceStyle.Render(line)
		case i == m.cursor:
			line = cursorStyle.Render(line)
		}
		if hovering && row.ID == target {
			line += targetStyle.Render(" ← " + intent.String())
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if m.dragging() && m.gesture.State() == overlay.GestureHovering && !hovering {
		b.WriteString(targetStyle.Render("  (root level)"))
		b.WriteByte('\n')
	}
	if m.pendingDelete != "" {
		b.WriteString(promptStyle.Render(m.status))
	} else {
		b.WriteString(statusStyle.Render(m.status + "\n" + layersHelp))
	}
	return b.String()
}
