package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/credential-service/internal/config"
	"github.com/iliyamo/credential-service/internal/model"
)

// DBTX is the subset of database/sql used by the repository.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type userQueries struct {
	exists   string
	byLogin  string
	insert   string
	loginArg int  // number of times byLogin binds the login value
	returnID bool // insert uses RETURNING instead of LastInsertId
}

var postgresUserQueries = userQueries{
	exists: `SELECT 1 FROM users WHERE email = $1 OR username = $2 LIMIT 1`,
	byLogin: `SELECT id, username, email, password_hash, created_at FROM users
		WHERE email = $1 OR username = $1
		ORDER BY id LIMIT 1`,
	insert:   `INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3) RETURNING id`,
	loginArg: 1,
	returnID: true,
}

var mysqlUserQueries = userQueries{
	exists: `SELECT 1 FROM users WHERE email = ? OR username = ? LIMIT 1`,
	byLogin: `SELECT id, username, email, password_hash, created_at FROM users
		WHERE email = ? OR username = ?
		ORDER BY id LIMIT 1`,
	insert:   `INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)`,
	loginArg: 2,
}

// UserRepo reads and writes the users table.
type UserRepo struct {
	db DBTX
	q  userQueries
}

// NewUserRepo returns a repository speaking the given SQL dialect.
func NewUserRepo(db DBTX, dialect string) *UserRepo {
	q := postgresUserQueries
	if dialect == config.DriverMySQL {
		q = mysqlUserQueries
	}
	return &UserRepo{db: db, q: q}
}

// ExistsByEmailOrUsername reports whether any user has the given email or
// the given username.
func (r *UserRepo) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, r.q.exists, email, username).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("db error: %w", err)
	}
	return true, nil
}

// FindByLogin fetches the user whose email or username equals login.
func (r *UserRepo) FindByLogin(ctx context.Context, login string) (model.User, error) {
	args := make([]any, r.q.loginArg)
	for i := range args {
		args[i] = login
	}
	var u model.User
	err := r.db.QueryRowContext(ctx, r.q.byLogin, args...).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

// Create inserts the user and sets u.ID to the store-assigned identifier.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	if r.q.returnID {
		err := r.db.QueryRowContext(ctx, r.q.insert, u.Username, u.Email, u.PasswordHash).Scan(&u.ID)
		if err != nil {
			return wrapInsertErr(err)
		}
		return nil
	}

	res, err := r.db.ExecContext(ctx, r.q.insert, u.Username, u.Email, u.PasswordHash)
	if err != nil {
		return wrapInsertErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	u.ID = uint64(id)
	return nil
}

func wrapInsertErr(err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %v", ErrUserExists, err)
	}
	return fmt.Errorf("db error: %w", err)
}
