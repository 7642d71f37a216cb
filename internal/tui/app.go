package tui

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/userdesk/internal/user"
	"github.com/jask/userdesk/internal/widget"
)

// Form field order; names match the collection's JSON keys.
const (
	fieldFirstName = iota
	fieldLastName
	fieldEmail
	fieldDepartment
	fieldCount
)

var fieldNames = [fieldCount]string{"firstName", "lastName", "email", "department"}

type focusArea int

const (
	focusList focusArea = iota
	focusForm
)

// App hosts a widget.Widget as a bubbletea program. All widget state changes
// happen in Update; remote calls run as commands and come back as
// outcomeMsg.
type App struct {
	ctx            context.Context
	widget         *widget.Widget
	keys           keyMap
	noticeDuration time.Duration
	remoteURL      string

	inputs     [fieldCount]textinput.Model
	inputFocus int
	focus      focusArea
	cursor     int
	inFlight   int
	hint       string
	width      int
}

// Options configure the display.
type Options struct {
	NoticeDuration time.Duration
	RemoteURL      string
}

func New(ctx context.Context, w *widget.Widget, opts Options) *App {
	if opts.NoticeDuration <= 0 {
		opts.NoticeDuration = 3 * time.Second
	}
	a := &App{
		ctx:            ctx,
		widget:         w,
		keys:           defaultKeys(),
		noticeDuration: opts.NoticeDuration,
		remoteURL:      opts.RemoteURL,
	}
	for i := range a.inputs {
		inp := textinput.New()
		inp.Prompt = fieldNames[i] + ": "
		inp.CharLimit = 256
		a.inputs[i] = inp
	}
	return a
}

func (a *App) Init() tea.Cmd {
	return a.run(a.widget.LoadTask())
}

// run executes a widget task off the event loop.
func (a *App) run(task widget.Task) tea.Cmd {
	a.inFlight++
	ctx := a.ctx
	return func() tea.Msg {
		return outcomeMsg{task(ctx)}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = m.Width
	case outcomeMsg:
		return a, a.applyOutcome(m.Outcome)
	case dismissMsg:
		a.widget.Dismiss(m.seq)
	case tea.KeyMsg:
		if m.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.focus == focusForm {
			return a.handleFormKey(m)
		}
		return a.handleListKey(m)
	}
	return a, nil
}

func (a *App) applyOutcome(o widget.Outcome) tea.Cmd {
	if a.inFlight > 0 {
		a.inFlight--
	}
	if err := a.widget.Apply(o); err != nil {
		log.Printf("%s: %v", o.Op(), o.Err())
		seq := a.widget.Notice().Seq
		return tea.Tick(a.noticeDuration, func(time.Time) tea.Msg { return dismissMsg{seq: seq} })
	}
	switch o.Op() {
	case widget.OpAdd, widget.OpUpdate:
		a.syncInputs()
		a.hint = ""
	}
	a.clampCursor()
	return nil
}

func (a *App) handleListKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	blocks := a.widget.Render()
	switch {
	case key.Matches(m, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(m, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
	case key.Matches(m, a.keys.Down):
		if a.cursor < len(blocks)-1 {
			a.cursor++
		}
	case key.Matches(m, a.keys.Edit):
		if action, ok := a.selectedAction(blocks, widget.ActionEdit); ok {
			a.widget.Dispatch(action)
			if editing, _ := a.widget.Editing(); editing {
				a.syncInputs()
				a.focusForm()
			}
		}
	case key.Matches(m, a.keys.Delete):
		if action, ok := a.selectedAction(blocks, widget.ActionDelete); ok {
			if task := a.widget.Dispatch(action); task != nil {
				return a, a.run(task)
			}
		}
	case key.Matches(m, a.keys.New):
		if editing, _ := a.widget.Editing(); editing {
			a.widget.CancelEdit()
			a.syncInputs()
			a.inputFocus = fieldFirstName
		}
		a.focusForm()
	}
	return a, nil
}

func (a *App) handleFormKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(m, a.keys.Back):
		a.focusListArea()
		return a, nil
	case key.Matches(m, a.keys.Next):
		a.moveInput(1)
		return a, nil
	case key.Matches(m, a.keys.Prev):
		a.moveInput(-1)
		return a, nil
	case key.Matches(m, a.keys.Submit):
		return a, a.submit()
	}
	var cmd tea.Cmd
	a.inputs[a.inputFocus], cmd = a.inputs[a.inputFocus].Update(m)
	a.widget.SetForm(a.formFields())
	a.hint = ""
	return a, cmd
}

func (a *App) submit() tea.Cmd {
	fields := a.formFields()
	a.widget.SetForm(fields)
	task, err := a.widget.SubmitTask(fields)
	if err != nil {
		if errors.Is(err, widget.ErrEmailRequired) {
			a.hint = "Email is required."
			a.inputs[a.inputFocus].Blur()
			a.inputFocus = fieldEmail
			a.inputs[a.inputFocus].Focus()
		}
		return nil
	}
	a.hint = ""
	return a.run(task)
}

func (a *App) selectedAction(blocks []widget.Block, kind widget.ActionKind) (widget.Action, bool) {
	if a.cursor < 0 || a.cursor >= len(blocks) {
		return widget.Action{}, false
	}
	for _, act := range blocks[a.cursor].Actions {
		if act.Kind == kind {
			return act, true
		}
	}
	return widget.Action{}, false
}

func (a *App) formFields() user.Fields {
	return user.Fields{
		FirstName:  a.inputs[fieldFirstName].Value(),
		LastName:   a.inputs[fieldLastName].Value(),
		Email:      a.inputs[fieldEmail].Value(),
		Department: a.inputs[fieldDepartment].Value(),
	}
}

// syncInputs copies the widget's form into the text inputs.
func (a *App) syncInputs() {
	f := a.widget.Form()
	a.inputs[fieldFirstName].SetValue(f.FirstName)
	a.inputs[fieldLastName].SetValue(f.LastName)
	a.inputs[fieldEmail].SetValue(f.Email)
	a.inputs[fieldDepartment].SetValue(f.Department)
}

func (a *App) focusForm() {
	a.focus = focusForm
	for i := range a.inputs {
		a.inputs[i].Blur()
	}
	a.inputs[a.inputFocus].Focus()
}

func (a *App) focusListArea() {
	a.focus = focusList
	for i := range a.inputs {
		a.inputs[i].Blur()
	}
}

func (a *App) moveInput(dir int) {
	a.inputs[a.inputFocus].Blur()
	a.inputFocus = (a.inputFocus + dir + fieldCount) % fieldCount
	a.inputs[a.inputFocus].Focus()
}

func (a *App) clampCursor() {
	n := len(a.widget.Render())
	if a.cursor >= n {
		a.cursor = n - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

// messages
type outcomeMsg struct{ widget.Outcome }

type dismissMsg struct{ seq int }
