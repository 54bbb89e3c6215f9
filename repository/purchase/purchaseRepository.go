// repository/purchase/purchaseRepository.go
package purchaserepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Siyemukel/Digital-online-bookstore/model"

	"github.com/shopspring/decimal"
)

// ErrInsufficientStock is returned by DecrementStock when the conditional
// update matches no row: the book's stock dropped below the requested
// quantity between cart time and finalization.
var ErrInsufficientStock = errors.New("insufficient stock")

type DailySale struct {
	Day   string          `json:"day"`
	Total decimal.Decimal `json:"total"`
}

type TopBook struct {
	Title    string `json:"title"`
	Quantity int64  `json:"quantity"`
}

type Repo interface {
	// Finalization steps; all run on the caller's transaction.
	InsertPurchase(ctx context.Context, tx *sql.Tx, userID int64, total decimal.Decimal, txnID string) (int64, error)
	PriceForUpdate(ctx context.Context, tx *sql.Tx, bookID int64) (decimal.Decimal, error)
	InsertItem(ctx context.Context, tx *sql.Tx, purchaseID, bookID int64, qty int, price decimal.Decimal) error
	DecrementStock(ctx context.Context, tx *sql.Tx, bookID int64, qty int) error
	DeleteCartItems(ctx context.Context, tx *sql.Tx, userID int64) error
	InsertDelivery(ctx context.Context, tx *sql.Tx, purchaseID int64, address string) error

	ListByUser(ctx context.Context, userID int64) ([]model.Purchase, error)
	ItemsForPurchase(ctx context.Context, purchaseID int64) ([]model.PurchaseItem, error)

	// Analytics.
	DailySales(ctx context.Context) ([]DailySale, error)
	TopBooks(ctx context.Context, limit int) ([]TopBook, error)
	TotalRevenue(ctx context.Context) (decimal.Decimal, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) InsertPurchase(ctx context.Context, tx *sql.Tx, userID int64, total decimal.Decimal, txnID string) (int64, error) {
	const q = `
INSERT INTO purchases (user_id, total, status, paypal_txn_id)
VALUES ($1,$2,$3,$4)
RETURNING id`
	var id int64
	if err := tx.QueryRowContext(ctx, q, userID, total, model.PurchaseCompleted, txnID).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repo) PriceForUpdate(ctx context.Context, tx *sql.Tx, bookID int64) (decimal.Decimal, error) {
	const q = `SELECT price FROM books WHERE id=$1 FOR UPDATE`
	var price decimal.Decimal
	err := tx.QueryRowContext(ctx, q, bookID).Scan(&price)
	return price, err
}

func (r *repo) InsertItem(ctx context.Context, tx *sql.Tx, purchaseID, bookID int64, qty int, price decimal.Decimal) error {
	const q = `
INSERT INTO purchase_items (purchase_id, book_id, quantity, price_at_purchase)
VALUES ($1,$2,$3,$4)`
	_, err := tx.ExecContext(ctx, q, purchaseID, bookID, qty, price)
	return err
}

// DecrementStock only succeeds when enough stock remains. Guarding in the
// UPDATE itself closes the race between concurrent checkouts.
func (r *repo) DecrementStock(ctx context.Context, tx *sql.Tx, bookID int64, qty int) error {
	const q = `
UPDATE books
SET stock = stock - $2
WHERE id = $1
  AND stock >= $2`
	res, err := tx.ExecContext(ctx, q, bookID, qty)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (r *repo) DeleteCartItems(ctx context.Context, tx *sql.Tx, userID int64) error {
	const q = `
DELETE FROM cart_items
WHERE cart_id IN (SELECT id FROM cart WHERE user_id=$1)`
	_, err := tx.ExecContext(ctx, q, userID)
	return err
}

func (r *repo) InsertDelivery(ctx context.Context, tx *sql.Tx, purchaseID int64, address string) error {
	const q = `
INSERT INTO deliveries (purchase_id, driver_id, address, status)
VALUES ($1, NULL, $2, $3)`
	_, err := tx.ExecContext(ctx, q, purchaseID, address, model.DeliveryPending)
	return err
}

func (r *repo) ListByUser(ctx context.Context, userID int64) ([]model.Purchase, error) {
	const q = `
SELECT id, user_id, total, status, paypal_txn_id, created_at
FROM purchases
WHERE user_id=$1
ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Purchase
	for rows.Next() {
		var p model.Purchase
		if err := rows.Scan(&p.ID, &p.UserID, &p.Total, &p.Status, &p.PayPalTxnID, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repo) ItemsForPurchase(ctx context.Context, purchaseID int64) ([]model.PurchaseItem, error) {
	const q = `
SELECT id, purchase_id, book_id, quantity, price_at_purchase
FROM purchase_items
WHERE purchase_id=$1
ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, purchaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PurchaseItem
	for rows.Next() {
		var it model.PurchaseItem
		if err := rows.Scan(&it.ID, &it.PurchaseID, &it.BookID, &it.Quantity, &it.PriceAtPurchase); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *repo) DailySales(ctx context.Context) ([]DailySale, error) {
	const q = `
SELECT to_char(created_at, 'YYYY-MM-DD') AS day, SUM(total) AS total
FROM purchases
GROUP BY 1
ORDER BY 1`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DailySale
	for rows.Next() {
		var d DailySale
		if err := rows.Scan(&d.Day, &d.Total); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *repo) TopBooks(ctx context.Context, limit int) ([]TopBook, error) {
	const q = `
SELECT b.title, SUM(pi.quantity) AS total_qty
FROM purchase_items pi
JOIN books b ON pi.book_id = b.id
GROUP BY b.id
ORDER BY total_qty DESC
LIMIT $1`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TopBook
	for rows.Next() {
		var t TopBook
		if err := rows.Scan(&t.Title, &t.Quantity); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *repo) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	const q = `SELECT COALESCE(SUM(total),0) FROM purchases`
	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx, q).Scan(&total)
	return total, err
}
