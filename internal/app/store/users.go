package store

import "context"

const createUserSQL = `
INSERT INTO users (username, email, password_hash)
VALUES ($1, $2, $3)
RETURNING id, username, email, password_hash, is_active, created_at
`

// CreateUser inserts a new account row.
func (q *Queries) CreateUser(ctx context.Context, username, email, passwordHash string) (User, error) {
	var u User
	err := q.pool.QueryRow(ctx, createUserSQL, username, email, passwordHash).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsActive, &u.CreatedAt,
	)
	return u, err
}

const getUserByUsernameSQL = `
SELECT id, username, email, password_hash, is_active, created_at
FROM users
WHERE username = $1
`

// GetUserByUsername fetches an account by its unique username.
// Returns ErrNotFound when the account does not exist.
func (q *Queries) GetUserByUsername(ctx context.Context, username string) (User, error) {
	var u User
	err := q.pool.QueryRow(ctx, getUserByUsernameSQL, username).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsActive, &u.CreatedAt,
	)
	if err != nil {
		return User{}, notFoundOr(err)
	}
	return u, nil
}
