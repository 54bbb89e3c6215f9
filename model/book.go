// model/book.go
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Book struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Author      string          `json:"author"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Stock       int64           `json:"stock"`
	Condition   string          `json:"condition,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// BookSummary is the list/search shape: no description, no blobs.
type BookSummary struct {
	ID       int64           `json:"id"`
	Title    string          `json:"title"`
	Author   string          `json:"author"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Stock    int64           `json:"stock"`
}

type Review struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	BookID    int64     `json:"book_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
