// model/purchase.go
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseCompleted is the only purchase status: a purchase row exists only
// once payment has been approved and finalized.
const PurchaseCompleted = "Completed"

type Purchase struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	Total       decimal.Decimal `json:"total"`
	Status      string          `json:"status"`
	PayPalTxnID string          `json:"paypal_txn_id"`
	CreatedAt   time.Time       `json:"created_at"`
}

// PurchaseItem snapshots quantity and price at purchase time; it is never
// recomputed from the books table.
type PurchaseItem struct {
	ID              int64           `json:"id"`
	PurchaseID      int64           `json:"purchase_id"`
	BookID          int64           `json:"book_id"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
}
