package store

import "errors"

var (
	// ErrEmailTaken is returned when registering with an email that
	// already belongs to another user.
	ErrEmailTaken = errors.New("email already registered")

	// ErrRewardUnavailable is returned when a redemption targets a reward
	// that doesn't exist or has no stock left.
	ErrRewardUnavailable = errors.New("reward not found or out of stock")

	// ErrInsufficientPoints is returned when a user's balance doesn't
	// cover a reward's cost.
	ErrInsufficientPoints = errors.New("insufficient points")
)
