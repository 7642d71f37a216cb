package repository

import (
	"context"
	"database/sql"
	"errors"
)

// ErrNotFound is returned when no row has the requested id.
var ErrNotFound = errors.New("not found")

// UserRepo handles users.
type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const userColumns = `id, first_name, last_name, email, department, created_at, updated_at`

// List returns users in insertion order.
func (r *UserRepo) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []User{}
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Department, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UserRepo) Get(ctx context.Context, id string) (User, error) {
	var u User
	err := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Department, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *UserRepo) Insert(ctx context.Context, u User) error {
	return insert(ctx, r.db, u)
}

// InsertTx inserts u inside an open transaction.
func InsertTx(ctx context.Context, tx *sql.Tx, u User) error {
	return insert(ctx, tx, u)
}

func insert(ctx context.Context, ex execer, u User) error {
	_, err := ex.ExecContext(ctx, `
	INSERT INTO users(id, first_name, last_name, email, department, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`, u.ID, u.FirstName, u.LastName, u.Email, u.Department)
	return err
}

// Update overwrites the editable columns of the user with u.ID.
func (r *UserRepo) Update(ctx context.Context, u User) error {
	res, err := r.db.ExecContext(ctx, `
	UPDATE users SET
	 first_name=?,
	 last_name=?,
	 email=?,
	 department=?,
	 updated_at=CURRENT_TIMESTAMP
	WHERE id = ?
	`, u.FirstName, u.LastName, u.Email, u.Department, u.ID)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
