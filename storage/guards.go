package storage

import "errors"

// Guard failures. Every guard is a pure check over the Market entity and the
// ambient block time; a non-nil return aborts the enclosing action with no
// side effect (the host discards the transaction's state view on error).
var (
	ErrMarketExists    = errors.New("market already initialized")
	ErrTradingClosed   = errors.New("market trading window closed")
	ErrAlreadyResolved = errors.New("market already resolved")
	ErrNotYetResolved  = errors.New("market not resolved yet")
	ErrNotYetExpired   = errors.New("market not expired yet")
	ErrZeroAmount      = errors.New("amount must be positive")
	ErrInvalidSide     = errors.New("invalid market side")
)

// TradingOpen passes while the market is unresolved and the close timestamp
// has not been reached. Buys racing the deadline are decided purely by the
// serialized arrival order: the first one admitted at or after the close
// fails here.
func (m *Market) TradingOpen(now int64) error {
	if m.Resolved {
		return ErrTradingClosed
	}
	if now >= m.CloseTimestamp {
		return ErrTradingClosed
	}
	return nil
}

// PastClose passes once the close timestamp has been reached. Required
// before resolution.
func (m *Market) PastClose(now int64) error {
	if now < m.CloseTimestamp {
		return ErrNotYetExpired
	}
	return nil
}

// NotResolved passes while no resolution has been recorded.
func (m *Market) NotResolved() error {
	if m.Resolved {
		return ErrAlreadyResolved
	}
	return nil
}

// RequireResolved passes once a resolution has been recorded.
func (m *Market) RequireResolved() error {
	if !m.Resolved {
		return ErrNotYetResolved
	}
	return nil
}
