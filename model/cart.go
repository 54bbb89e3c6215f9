package model

import "github.com/shopspring/decimal"

// CartItem joins the cart row with its book for display and pricing.
type CartItem struct {
	ID       int64           `json:"id"`
	BookID   int64           `json:"book_id"`
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Stock    int64           `json:"stock"`
}
