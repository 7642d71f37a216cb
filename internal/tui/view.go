package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/userdesk/internal/widget"
)

func (a *App) View() string {
	sections := []string{titleStyle.Render("Users"), a.renderStatus()}
	if n := a.widget.Notice(); n.Visible() {
		sections = append(sections, noticeStyle.Render(n.Text))
	}
	sections = append(sections, a.renderList(), a.renderForm(), a.renderHelp())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a *App) renderStatus() string {
	s := a.remoteURL
	if a.inFlight > 0 {
		s += fmt.Sprintf("  (%d pending)", a.inFlight)
	}
	return statusStyle.Render(s)
}

func (a *App) renderList() string {
	blocks := a.widget.Render()
	if len(blocks) == 0 {
		return statusStyle.Render("No users.")
	}
	out := make([]string, 0, len(blocks))
	for i, b := range blocks {
		out = append(out, a.renderBlock(b, i == a.cursor && a.focus == focusList))
	}
	return lipgloss.JoinVertical(lipgloss.Left, out...)
}

func (a *App) renderBlock(b widget.Block, selected bool) string {
	labels := make([]string, len(b.Actions))
	for i, act := range b.Actions {
		labels[i] = actionStyle.Render("[" + act.Label + "]")
	}
	body := strings.Join(b.Lines, "\n") + "\n" + strings.Join(labels, " ")
	style := blockStyle
	if selected {
		style = selectedStyle
	}
	if a.width > 4 {
		style = style.Width(a.width - 4)
	}
	return style.Render(body)
}

func (a *App) renderForm() string {
	title := "New user"
	if editing, id := a.widget.Editing(); editing {
		title = "Editing user " + id.String()
	}
	lines := []string{title}
	for _, in := range a.inputs {
		lines = append(lines, in.View())
	}
	if a.hint != "" {
		lines = append(lines, hintStyle.Render(a.hint))
	}
	style := formStyle
	if a.focus == focusForm {
		style = formFocus
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (a *App) renderHelp() string {
	bindings := a.keys.listHelp()
	if a.focus == focusForm {
		bindings = a.keys.formHelp()
	}
	return helpStyle.Render(helpLine(bindings))
}

func helpLine(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+": "+h.Desc)
	}
	return strings.Join(parts, "  ")
}
