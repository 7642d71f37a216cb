package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/userdesk/internal/database"
	"github.com/jask/userdesk/internal/database/repository"
	"github.com/jask/userdesk/internal/remote"
	"github.com/jask/userdesk/internal/user"
	"github.com/jask/userdesk/internal/widget"
)

func newServer(t *testing.T) (*httptest.Server, *repository.UserRepo) {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := repository.NewUserRepo(db)
	srv := httptest.NewServer(LogRequests(New(repo, "users")))
	t.Cleanup(srv.Close)
	return srv, repo
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

func TestCollectionRoutes(t *testing.T) {
	srv, _ := newServer(t)
	base := srv.URL + "/users"

	resp, body := do(t, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `[]`, string(body))

	resp, body = do(t, http.MethodPost, base, `{"firstName":"A","email":"a@x.com"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created user.Record
	require.NoError(t, json.Unmarshal(body, &created))
	require.False(t, created.ID.IsZero())
	require.False(t, created.ID.Numeric())
	require.Equal(t, "A", created.FirstName)

	item := base + "/" + created.ID.String()
	resp, _ = do(t, http.MethodPut, item, `{"firstName":"B","email":"a@x.com","department":"Ops"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = do(t, http.MethodGet, item, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got user.Record
	require.NoError(t, json.Unmarshal(body, &got))
	require.Equal(t, "B", got.FirstName)
	require.Equal(t, "Ops", got.Department)

	resp, _ = do(t, http.MethodDelete, item, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = do(t, http.MethodDelete, item, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = do(t, http.MethodPut, item, `{"email":"a@x.com"}`)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateValidatesBody(t *testing.T) {
	srv, repo := newServer(t)
	base := srv.URL + "/users"

	resp, body := do(t, http.MethodPost, base, `{"firstName":`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.JSONEq(t, `{"error":"json"}`, string(body))

	resp, body = do(t, http.MethodPost, base, `{"firstName":"A"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.JSONEq(t, `{"error":"email"}`, string(body))

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestHealth(t *testing.T) {
	srv, _ := newServer(t)
	resp, body := do(t, http.MethodGet, srv.URL+"/healthz", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"ok":"true"}`, string(body))
}

func TestWidgetAgainstServer(t *testing.T) {
	srv, repo := newServer(t)
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, repository.User{ID: "seed-1", FirstName: "A", Email: "a@x.com"}))

	client, err := remote.New(srv.URL, "users", remote.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	w := widget.New(client)

	require.NoError(t, w.Load(ctx))
	require.Equal(t, []string{"ID: seed-1", "Name: A N/A", "Email: a@x.com", "Department: N/A"}, w.Render()[0].Lines)

	require.NoError(t, w.Submit(ctx, user.Fields{FirstName: "B", Email: "b@x.com"}))
	users := w.Users()
	require.Len(t, users, 2)
	newID := users[1].ID

	require.True(t, w.BeginEdit(newID))
	f := w.Form()
	f.FirstName = "C"
	require.NoError(t, w.Submit(ctx, f))

	stored, err := repo.Get(ctx, newID.String())
	require.NoError(t, err)
	require.Equal(t, "C", stored.FirstName)
	require.Equal(t, "b@x.com", stored.Email)

	require.NoError(t, w.Remove(ctx, user.StringID("seed-1")))
	err = w.Remove(ctx, user.StringID("seed-1"))
	require.EqualError(t, err, "Failed to delete user.")
	require.Len(t, w.Users(), 1)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}
