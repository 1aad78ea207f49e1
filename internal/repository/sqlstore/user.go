package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sakif/jobly/internal/apperror"
	"github.com/sakif/jobly/internal/model"
	"github.com/sakif/jobly/internal/query"
	"github.com/sakif/jobly/internal/repository"
)

var _ repository.UserRepository = (*UserStore)(nil)

// UserStore reads and writes the users table.
type UserStore struct {
	db *DB
}

const userColumns = "username, password, first_name, last_name, email, photo_url, is_admin"

func scanUser(row interface{ Scan(...any) error }, u *model.User) error {
	return row.Scan(&u.Username, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Email, &u.PhotoURL, &u.IsAdmin)
}

func (s *UserStore) List(ctx context.Context) ([]model.User, error) {
	rows, err := s.db.conn.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM users ORDER BY username`, userColumns))
	if err != nil {
		return nil, fmt.Errorf("sqlstore: listing users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := scanUser(rows, &u); err != nil {
			return nil, fmt.Errorf("sqlstore: scanning user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: iterating users: %w", err)
	}

	return users, nil
}

// Get retrieves a user, password hash included, for login checks.
func (s *UserStore) Get(ctx context.Context, username string) (*model.User, error) {
	var u model.User

	err := scanUser(s.db.conn.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM users WHERE username = %s`, userColumns, s.db.dialect.Placeholder(1)),
		username,
	), &u)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", "username", username)
		}
		return nil, fmt.Errorf("sqlstore: getting user %s: %w", username, err)
	}

	return &u, nil
}

// Create inserts u. u.PasswordHash must already be a bcrypt hash.
func (s *UserStore) Create(ctx context.Context, u model.User) (*model.User, error) {
	var created model.User

	err := scanUser(s.db.conn.QueryRowContext(ctx,
		fmt.Sprintf(`INSERT INTO users (%s) VALUES (%s) RETURNING %s`,
			userColumns, s.db.placeholders(7), userColumns),
		u.Username, u.PasswordHash, u.FirstName, u.LastName, u.Email, u.PhotoURL, u.IsAdmin,
	), &created)
	if err != nil {
		return nil, storeError(err, "creating", "user", map[string]string{"username": u.Username})
	}

	return &created, nil
}

// Update applies a partial update. p.Password, when set, must already be hashed.
//
// PASSWORDS NEVER ARRIVE IN PLAINTEXT:
// UserService.Update swaps the plaintext for its bcrypt hash before calling
// here, so the store writes whatever it is given into the password column.
func (s *UserStore) Update(ctx context.Context, username string, p model.UserPatch) (*model.User, error) {
	stmt, args, err := s.db.updates.Build("users", userChanges(p), "username", username)
	if err != nil {
		return nil, builderError(err)
	}

	var u model.User
	if err := scanUser(s.db.conn.QueryRowContext(ctx, stmt, args...), &u); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", "username", username)
		}
		return nil, storeError(err, "updating", "user", nil)
	}

	return &u, nil
}

func (s *UserStore) Delete(ctx context.Context, username string) error {
	result, err := s.db.conn.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM users WHERE username = %s`, s.db.dialect.Placeholder(1)),
		username,
	)
	if err != nil {
		return fmt.Errorf("sqlstore: deleting user %s: %w", username, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlstore: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound("user", "username", username)
	}

	return nil
}

func userChanges(p model.UserPatch) []query.Set {
	var changes []query.Set
	if p.Password != nil {
		changes = append(changes, query.Set{Column: "password", Value: *p.Password})
	}
	if p.FirstName != nil {
		changes = append(changes, query.Set{Column: "first_name", Value: *p.FirstName})
	}
	if p.LastName != nil {
		changes = append(changes, query.Set{Column: "last_name", Value: *p.LastName})
	}
	if p.Email != nil {
		changes = append(changes, query.Set{Column: "email", Value: *p.Email})
	}
	if p.PhotoURL.Set {
		changes = append(changes, query.Set{Column: "photo_url", Value: p.PhotoURL.Value})
	}
	return changes
}
