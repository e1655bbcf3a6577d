package actions

import "errors"

var (
	ErrMarketNotFound     = errors.New("market not found")
	ErrQuestionEmpty      = errors.New("question cannot be empty")
	ErrQuestionTooLong    = errors.New("question too long")
	ErrCloseTimeNotFuture = errors.New("close timestamp must be in the future")
	ErrInvalidOutcome     = errors.New("outcome must be 0 or 1")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNoWinningShares    = errors.New("no winning shares to claim")
)
