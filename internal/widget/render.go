package widget

import (
	"fmt"
	"io"
	"strings"

	"github.com/jask/userdesk/internal/user"
)

// ActionKind names what an Action does.
type ActionKind string

const (
	ActionEdit   ActionKind = "edit"
	ActionDelete ActionKind = "delete"
)

// Action is a trigger on a rendered block, bound to the record's id.
type Action struct {
	Kind  ActionKind
	Label string
	ID    user.ID
}

// Block is the display of one record.
type Block struct {
	ID      user.ID
	Lines   []string
	Actions []Action
}

func (b Block) String() string {
	labels := make([]string, len(b.Actions))
	for i, a := range b.Actions {
		labels[i] = "[" + a.Label + "]"
	}
	return strings.Join(b.Lines, "\n") + "\n" + strings.Join(labels, " ")
}

// Render projects the user list into display blocks, one per record, in list
// order. It has no side effects.
func (w *Widget) Render() []Block {
	blocks := make([]Block, 0, len(w.users))
	for _, r := range w.users {
		blocks = append(blocks, Block{
			ID: r.ID,
			Lines: []string{
				"ID: " + r.ID.String(),
				"Name: " + w.orPlaceholder(r.FirstName) + " " + w.orPlaceholder(r.LastName),
				"Email: " + r.Email,
				"Department: " + w.orPlaceholder(r.Department),
			},
			Actions: []Action{
				{Kind: ActionEdit, Label: "Edit", ID: r.ID},
				{Kind: ActionDelete, Label: "Delete", ID: r.ID},
			},
		})
	}
	return blocks
}

// WriteText writes the rendered blocks to out, separated by blank lines.
func (w *Widget) WriteText(out io.Writer) error {
	for i, b := range w.Render() {
		if i > 0 {
			if _, err := io.WriteString(out, "\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(out, b.String()); err != nil {
			return err
		}
	}
	return nil
}

// Dispatch runs an action. Edit is handled locally and returns a nil Task;
// Delete returns the remote task to run.
func (w *Widget) Dispatch(a Action) Task {
	switch a.Kind {
	case ActionEdit:
		w.BeginEdit(a.ID)
	case ActionDelete:
		return w.RemoveTask(a.ID)
	}
	return nil
}

func (w *Widget) orPlaceholder(s string) string {
	if s == "" {
		return w.placeholder
	}
	return s
}
