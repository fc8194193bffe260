package core

import "github.com/shopspring/decimal"

// Session carries the per-request identity the engine needs when talking
// to the backend services. It is passed explicitly through every load so
// there is no ambient global state: initialized when a load starts, gone
// when the caller drops it.
type Session struct {
	UserID int64
	Token  string
	// Income is the user's declared monthly income, consumed only by the
	// health-score insight. Zero means "not declared".
	Income decimal.Decimal
}
