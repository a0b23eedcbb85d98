package model

import "time"

// Transaction types. "reward" records points earned, "redeem" points spent.
const (
	TransactionReward = "reward"
	TransactionRedeem = "redeem"
)

type Transaction struct {
	ID     int64     `json:"id"`
	UserID int64     `json:"user_id"`
	Type   string    `json:"type"`
	Amount int       `json:"amount"`
	Date   time.Time `json:"date"`
}
