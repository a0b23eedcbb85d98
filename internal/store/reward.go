package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/pulse/internal/model"
)

type RewardStore struct {
	db *sql.DB
}

func NewRewardStore(db *sql.DB) *RewardStore {
	return &RewardStore{db: db}
}

func scanReward(scanner interface{ Scan(...any) error }) (*model.Reward, error) {
	var r model.Reward
	err := scanner.Scan(&r.ID, &r.Name, &r.PointsRequired, &r.Description, &r.Stock, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

const rewardCols = `id, name, points_required, description, stock, created_at`

func (s *RewardStore) Create(name string, pointsRequired int, description string, stock int) (*model.Reward, error) {
	result, err := s.db.Exec(
		`INSERT INTO rewards (name, points_required, description, stock) VALUES (?, ?, ?, ?)`,
		name, pointsRequired, description, stock,
	)
	if err != nil {
		return nil, fmt.Errorf("insert reward: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *RewardStore) GetByID(id int64) (*model.Reward, error) {
	row := s.db.QueryRow(`SELECT `+rewardCols+` FROM rewards WHERE id = ?`, id)
	r, err := scanReward(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get reward: %w", err)
	}
	return r, nil
}

// List returns every reward, including depleted ones, ordered by id.
func (s *RewardStore) List() ([]model.Reward, error) {
	rows, err := s.db.Query(`SELECT ` + rewardCols + ` FROM rewards ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list rewards: %w", err)
	}
	defer rows.Close()

	var rewards []model.Reward
	for rows.Next() {
		r, err := scanReward(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reward: %w", err)
		}
		rewards = append(rewards, *r)
	}
	return rewards, rows.Err()
}

// ListInStock returns only rewards with stock remaining, ordered by cost.
func (s *RewardStore) ListInStock() ([]model.Reward, error) {
	rows, err := s.db.Query(`SELECT ` + rewardCols + ` FROM rewards WHERE stock > 0 ORDER BY points_required ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list in-stock rewards: %w", err)
	}
	defer rows.Close()

	var rewards []model.Reward
	for rows.Next() {
		r, err := scanReward(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reward: %w", err)
		}
		rewards = append(rewards, *r)
	}
	return rewards, rows.Err()
}

func (s *RewardStore) Update(id int64, name string, pointsRequired int, description string, stock int) (*model.Reward, error) {
	_, err := s.db.Exec(
		`UPDATE rewards SET name = ?, points_required = ?, description = ?, stock = ? WHERE id = ?`,
		name, pointsRequired, description, stock, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update reward: %w", err)
	}
	return s.GetByID(id)
}

func (s *RewardStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM rewards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete reward: %w", err)
	}
	return nil
}

// Redeem exchanges points for one unit of a reward's stock. The points
// decrement, stock decrement, and transaction record are a single database
// transaction; both decrements are conditional row updates re-checked by
// affected-row count, so two redemptions racing for the last unit (or the
// last of a user's points) cannot both commit.
//
// Returns ErrRewardUnavailable if the reward is missing or depleted, and
// ErrInsufficientPoints if the user's balance doesn't cover the cost.
func (s *RewardStore) Redeem(userID, rewardID int64) (*model.Reward, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin redeem: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`SELECT `+rewardCols+` FROM rewards WHERE id = ?`, rewardID)
	reward, err := scanReward(row)
	if err == sql.ErrNoRows {
		return nil, ErrRewardUnavailable
	}
	if err != nil {
		return nil, fmt.Errorf("get reward: %w", err)
	}
	if reward.Stock <= 0 {
		return nil, ErrRewardUnavailable
	}

	result, err := tx.Exec(
		`UPDATE users SET points = points - ? WHERE id = ? AND points >= ?`,
		reward.PointsRequired, userID, reward.PointsRequired,
	)
	if err != nil {
		return nil, fmt.Errorf("deduct points: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, ErrInsufficientPoints
	}

	result, err = tx.Exec(
		`UPDATE rewards SET stock = stock - 1 WHERE id = ? AND stock > 0`,
		rewardID,
	)
	if err != nil {
		return nil, fmt.Errorf("decrement stock: %w", err)
	}
	n, err = result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, ErrRewardUnavailable
	}

	if _, err := tx.Exec(
		`INSERT INTO transactions (user_id, type, amount) VALUES (?, ?, ?)`,
		userID, model.TransactionRedeem, reward.PointsRequired,
	); err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit redeem: %w", err)
	}

	reward.Stock--
	return reward, nil
}
