// Package widget keeps an in-memory user list synchronized, best-effort, with
// a remote collection.
//
// A Widget is confined to a single interaction loop. Remote calls are
// expressed as Tasks which may run anywhere; their Outcome must be handed
// back to Apply on the loop that owns the Widget. Local state only changes in
// Apply, after the remote call has already succeeded, so a failed call never
// leaves a partial mutation behind.
package widget

import (
	"context"
	"strings"

	"github.com/jask/userdesk/internal/user"
)

// DefaultPlaceholder is rendered for absent optional fields.
const DefaultPlaceholder = "N/A"

// Collection is the remote collection endpoint.
type Collection interface {
	List(ctx context.Context) ([]user.Record, error)
	Create(ctx context.Context, f user.Fields) (user.ID, error)
	Update(ctx context.Context, id user.ID, f user.Fields) error
	Delete(ctx context.Context, id user.ID) error
}

// Task is one remote call. It does not touch widget state.
type Task func(ctx context.Context) Outcome

// Outcome is the result of a Task, applied with Widget.Apply.
type Outcome struct {
	op      Op
	records []user.Record
	id      user.ID
	fields  user.Fields
	err     error
}

// Op is the operation the task performed.
func (o Outcome) Op() Op { return o.op }

// Err is the raw cause of a failed call, nil on success.
func (o Outcome) Err() error { return o.err }

// Notice is the transient error region. Seq identifies the notice so a
// dismissal scheduled for an older notice does not hide a newer one.
type Notice struct {
	Text string
	Seq  int
}

// Visible reports whether the notice has text to show.
func (n Notice) Visible() bool { return n.Text != "" }

// Widget owns the user list, the edit-mode flag, the id under edit, the form
// contents and the notice region.
type Widget struct {
	remote      Collection
	placeholder string

	users     []user.Record
	editMode  bool
	editingID user.ID
	form      user.Fields

	notice    Notice
	noticeSeq int
}

// Option configures a Widget.
type Option func(*Widget)

// WithPlaceholder overrides the text rendered for absent optional fields.
func WithPlaceholder(p string) Option {
	return func(w *Widget) {
		if p != "" {
			w.placeholder = p
		}
	}
}

// New returns an empty widget backed by remote.
func New(remote Collection, opts ...Option) *Widget {
	w := &Widget{remote: remote, placeholder: DefaultPlaceholder}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Users returns a copy of the current list.
func (w *Widget) Users() []user.Record {
	out := make([]user.Record, len(w.users))
	for i, r := range w.users {
		out[i] = r.Clone()
	}
	return out
}

// Editing reports whether the form holds an update and for which id.
func (w *Widget) Editing() (bool, user.ID) { return w.editMode, w.editingID }

// Form returns the current form contents.
func (w *Widget) Form() user.Fields { return w.form }

// SetForm records what the form fields currently hold.
func (w *Widget) SetForm(f user.Fields) { w.form = f }

// Notice returns the notice region.
func (w *Widget) Notice() Notice { return w.notice }

// Dismiss hides the notice if it is still the one identified by seq.
func (w *Widget) Dismiss(seq int) {
	if w.notice.Seq == seq {
		w.notice.Text = ""
	}
}

// LoadTask reads the entire collection.
func (w *Widget) LoadTask() Task {
	remote := w.remote
	return func(ctx context.Context) Outcome {
		list, err := remote.List(ctx)
		return Outcome{op: OpFetch, records: list, err: err}
	}
}

// SubmitTask creates a record, or updates the one under edit when the widget
// is in edit mode. The mode and id are captured when the task is built.
func (w *Widget) SubmitTask(f user.Fields) (Task, error) {
	if strings.TrimSpace(f.Email) == "" {
		return nil, ErrEmailRequired
	}
	remote := w.remote
	if w.editMode {
		id := w.editingID
		return func(ctx context.Context) Outcome {
			err := remote.Update(ctx, id, f)
			return Outcome{op: OpUpdate, id: id, fields: f, err: err}
		}, nil
	}
	return func(ctx context.Context) Outcome {
		id, err := remote.Create(ctx, f)
		return Outcome{op: OpAdd, id: id, fields: f, err: err}
	}, nil
}

// RemoveTask deletes the record with the given id.
func (w *Widget) RemoveTask(id user.ID) Task {
	remote := w.remote
	return func(ctx context.Context) Outcome {
		err := remote.Delete(ctx, id)
		return Outcome{op: OpDelete, id: id, err: err}
	}
}

// Apply folds a finished task into local state. A failed outcome raises the
// notice, leaves everything else untouched and is returned as a
// *RemoteOperationFailed.
func (w *Widget) Apply(o Outcome) error {
	if o.err != nil {
		return w.fail(o.op, o.err)
	}
	switch o.op {
	case OpFetch:
		w.users = make([]user.Record, 0, len(o.records))
		for _, r := range o.records {
			// ids are unique; a repeated id from the server is dropped
			if !r.ID.IsZero() && w.indexOf(r.ID) >= 0 {
				continue
			}
			w.users = append(w.users, r.Clone())
		}
	case OpAdd:
		rec := user.New(o.id, o.fields)
		if idx := w.indexOf(o.id); idx >= 0 {
			w.users[idx] = rec
		} else {
			w.users = append(w.users, rec)
		}
		w.CancelEdit()
	case OpUpdate:
		for i := range w.users {
			if w.users[i].ID == o.id {
				w.users[i] = w.users[i].Merge(o.fields)
			}
		}
		w.CancelEdit()
	case OpDelete:
		kept := w.users[:0:0]
		for _, r := range w.users {
			if r.ID != o.id {
				kept = append(kept, r)
			}
		}
		w.users = kept
	}
	return nil
}

// Load runs LoadTask and applies it.
func (w *Widget) Load(ctx context.Context) error {
	return w.Apply(w.LoadTask()(ctx))
}

// Submit runs SubmitTask and applies it.
func (w *Widget) Submit(ctx context.Context, f user.Fields) error {
	task, err := w.SubmitTask(f)
	if err != nil {
		return err
	}
	w.form = f
	return w.Apply(task(ctx))
}

// Remove runs RemoveTask and applies it.
func (w *Widget) Remove(ctx context.Context, id user.ID) error {
	return w.Apply(w.RemoveTask(id)(ctx))
}

// BeginEdit loads the record into the form and enters edit mode. It reports
// false and changes nothing when no record has the id.
func (w *Widget) BeginEdit(id user.ID) bool {
	idx := w.indexOf(id)
	if idx < 0 {
		return false
	}
	w.form = w.users[idx].Fields()
	w.editMode = true
	w.editingID = id
	return true
}

// CancelEdit leaves edit mode and clears the form.
func (w *Widget) CancelEdit() {
	w.form = user.Fields{}
	w.editMode = false
	w.editingID = user.ID{}
}

func (w *Widget) fail(op Op, cause error) error {
	w.noticeSeq++
	w.notice = Notice{Text: op.Message(), Seq: w.noticeSeq}
	return &RemoteOperationFailed{Op: op, Err: cause}
}

func (w *Widget) indexOf(id user.ID) int {
	for i, r := range w.users {
		if r.ID == id {
			return i
		}
	}
	return -1
}
