package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jask/userdesk/internal/user"
	"github.com/jask/userdesk/internal/widget"
)

type stubCollection struct {
	list      []user.Record
	listErr   error
	nextID    int64
	createErr error
	updateErr error
	deleteErr error
	updated   []user.Fields
	deleted   []user.ID
}

func (s *stubCollection) List(context.Context) ([]user.Record, error) { return s.list, s.listErr }

func (s *stubCollection) Create(context.Context, user.Fields) (user.ID, error) {
	if s.createErr != nil {
		return user.ID{}, s.createErr
	}
	s.nextID++
	return user.IntID(s.nextID), nil
}

func (s *stubCollection) Update(_ context.Context, _ user.ID, f user.Fields) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updated = append(s.updated, f)
	return nil
}

func (s *stubCollection) Delete(_ context.Context, id user.ID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func keyMsg(k string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func typeText(t *testing.T, a *App, s string) {
	t.Helper()
	for _, r := range s {
		next, _ := a.Update(keyMsg(string(r)))
		require.Same(t, a, next)
	}
}

// drain runs cmd and feeds its message back, like the program loop does.
func drain(t *testing.T, a *App, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	require.NotNil(t, cmd)
	_, next := a.Update(cmd())
	return next
}

func started(t *testing.T, sc *stubCollection) *App {
	t.Helper()
	a := New(context.Background(), widget.New(sc), Options{NoticeDuration: 10 * time.Millisecond, RemoteURL: "http://test/users"})
	require.Nil(t, drain(t, a, a.Init()))
	return a
}

func TestInitLoadsAndRendersUsers(t *testing.T) {
	a := started(t, &stubCollection{list: []user.Record{{ID: user.IntID(1), FirstName: "A", Email: "a@x.com"}}})

	view := a.View()
	require.Contains(t, view, "ID: 1")
	require.Contains(t, view, "Name: A N/A")
	require.Contains(t, view, "Email: a@x.com")
	require.Contains(t, view, "Department: N/A")
	require.Contains(t, view, "[Edit]")
	require.Contains(t, view, "[Delete]")
}

func TestFailedLoadShowsNoticeUntilDismissed(t *testing.T) {
	a := New(context.Background(), widget.New(&stubCollection{listErr: errors.New("down")}), Options{NoticeDuration: time.Millisecond})

	tick := drain(t, a, a.Init())
	require.Contains(t, a.View(), "Failed to fetch users.")

	// tea.Tick blocks for the duration and then yields the dismissal
	_, next := a.Update(tick())
	require.Nil(t, next)
	require.NotContains(t, a.View(), "Failed to fetch users.")
}

func TestCreateThroughForm(t *testing.T) {
	sc := &stubCollection{nextID: 1}
	a := started(t, sc)

	a.Update(keyMsg("n"))
	require.Equal(t, focusForm, a.focus)
	typeText(t, a, "B")
	a.Update(tea.KeyMsg{Type: tea.KeyTab})
	a.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeText(t, a, "b@x.com")

	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, drain(t, a, cmd))

	users := a.widget.Users()
	require.Len(t, users, 1)
	require.Equal(t, user.Record{ID: user.IntID(2), FirstName: "B", Email: "b@x.com"}, users[0])
	require.Equal(t, user.Fields{}, a.formFields(), "form is cleared after success")
}

func TestSubmitWithoutEmailShowsHint(t *testing.T) {
	a := started(t, &stubCollection{})

	a.Update(keyMsg("n"))
	typeText(t, a, "B")
	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd)
	require.Contains(t, a.View(), "Email is required.")
	require.Equal(t, fieldEmail, a.inputFocus)
}

func TestEditSelectedThenSubmit(t *testing.T) {
	sc := &stubCollection{list: []user.Record{
		{ID: user.IntID(1), Email: "a@x.com"},
		{ID: user.IntID(2), FirstName: "B", Email: "b@x.com", Department: "Ops"},
	}}
	a := started(t, sc)

	a.Update(keyMsg("j"))
	a.Update(keyMsg("e"))
	require.Equal(t, focusForm, a.focus)
	require.Contains(t, a.View(), "Editing user 2")
	require.Equal(t, "B", a.inputs[fieldFirstName].Value())

	a.inputs[fieldFirstName].SetValue("C")
	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, drain(t, a, cmd))

	got := a.widget.Users()[1]
	require.Equal(t, "C", got.FirstName)
	require.Equal(t, "Ops", got.Department)
	editing, _ := a.widget.Editing()
	require.False(t, editing)
	require.Contains(t, a.View(), "New user")
}

func TestDeleteSelected(t *testing.T) {
	sc := &stubCollection{list: []user.Record{
		{ID: user.IntID(1), Email: "a@x.com"},
		{ID: user.IntID(2), Email: "b@x.com"},
	}}
	a := started(t, sc)

	a.Update(keyMsg("j"))
	_, cmd := a.Update(keyMsg("x"))
	require.Nil(t, drain(t, a, cmd))

	require.Equal(t, []user.ID{user.IntID(2)}, sc.deleted)
	require.Len(t, a.widget.Users(), 1)
	require.Equal(t, 0, a.cursor)
	require.NotContains(t, a.View(), "ID: 2")
}

func TestDeleteFailureKeepsList(t *testing.T) {
	sc := &stubCollection{
		list:      []user.Record{{ID: user.IntID(1), Email: "a@x.com"}},
		deleteErr: errors.New("nope"),
	}
	a := started(t, sc)

	_, cmd := a.Update(keyMsg("x"))
	tick := drain(t, a, cmd)
	require.NotNil(t, tick)
	require.Len(t, a.widget.Users(), 1)
	require.Contains(t, a.View(), "Failed to delete user.")
}

func TestTypingQInFormDoesNotQuit(t *testing.T) {
	a := started(t, &stubCollection{})

	a.Update(keyMsg("n"))
	a.Update(keyMsg("q"))
	require.Equal(t, focusForm, a.focus)
	require.True(t, strings.HasSuffix(a.inputs[fieldFirstName].Value(), "q"))

	a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	_, cmd := a.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	_, isQuit := cmd().(tea.QuitMsg)
	require.True(t, isQuit)
}

func TestNewAfterEditCreatesRecord(t *testing.T) {
	sc := &stubCollection{
		list:   []user.Record{{ID: user.IntID(1), FirstName: "A", Email: "a@x.com"}},
		nextID: 1,
	}
	a := started(t, sc)

	a.Update(keyMsg("e"))
	require.Contains(t, a.View(), "Editing user 1")
	a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	a.Update(keyMsg("n"))
	require.Equal(t, focusForm, a.focus)
	require.Contains(t, a.View(), "New user")
	require.Equal(t, user.Fields{}, a.formFields())

	typeText(t, a, "N")
	a.Update(tea.KeyMsg{Type: tea.KeyTab})
	a.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeText(t, a, "n@x.com")
	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, drain(t, a, cmd))

	require.Empty(t, sc.updated)
	users := a.widget.Users()
	require.Len(t, users, 2)
	require.Equal(t, user.Record{ID: user.IntID(1), FirstName: "A", Email: "a@x.com"}, users[0])
	require.Equal(t, user.Record{ID: user.IntID(2), FirstName: "N", Email: "n@x.com"}, users[1])
}

func TestEscKeepsEditUntilNew(t *testing.T) {
	a := started(t, &stubCollection{list: []user.Record{{ID: user.IntID(1), FirstName: "A", Email: "a@x.com"}}})

	a.Update(keyMsg("e"))
	a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	editing, id := a.widget.Editing()
	require.True(t, editing)
	require.Equal(t, user.IntID(1), id)
	require.Equal(t, "A", a.inputs[fieldFirstName].Value())
}
