package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/dukerupert/pulse/internal/model"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(scanner interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	err := scanner.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Points, &u.Role, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

const userCols = `id, name, email, password, points, role, created_at`

// Create inserts a new user with zero points and the "user" role. The
// password must already be hashed by the caller. Returns ErrEmailTaken if
// the email is already registered.
func (s *UserStore) Create(name, email, hashedPassword string) (*model.User, error) {
	result, err := s.db.Exec(
		`INSERT INTO users (name, email, password, role, points) VALUES (?, ?, ?, 'user', 0)`,
		name, email, hashedPassword,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *UserStore) GetByID(id int64) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByEmail(email string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// List returns all users ordered by id.
func (s *UserStore) List() ([]model.User, error) {
	rows, err := s.db.Query(`SELECT ` + userCols + ` FROM users ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// AddPoints increments a user's balance by amount and records a "reward"
// transaction, both in one database transaction. The increment is a single
// conditional row update, so concurrent grants never lose points.
func (s *UserStore) AddPoints(id int64, amount int) (*model.User, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin add points: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`UPDATE users SET points = points + ? WHERE id = ?`, amount, id)
	if err != nil {
		return nil, fmt.Errorf("update points: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, nil
	}

	if _, err := tx.Exec(
		`INSERT INTO transactions (user_id, type, amount) VALUES (?, ?, ?)`,
		id, model.TransactionReward, amount,
	); err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit add points: %w", err)
	}
	return s.GetByID(id)
}

// SetPoints overwrites a user's balance. Admin-only operation; no
// transaction row is recorded since it's a correction, not an earn/spend.
func (s *UserStore) SetPoints(id int64, points int) (*model.User, error) {
	_, err := s.db.Exec(`UPDATE users SET points = ? WHERE id = ?`, points, id)
	if err != nil {
		return nil, fmt.Errorf("set points: %w", err)
	}
	return s.GetByID(id)
}
