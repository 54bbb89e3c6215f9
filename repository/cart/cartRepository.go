// repository/cart/cartRepository.go
package cartrepo

import (
	"context"
	"database/sql"

	"github.com/Siyemukel/Digital-online-bookstore/model"
)

// Item is a cart_items row with its owning cart's user for ownership checks.
type Item struct {
	ID       int64
	CartID   int64
	BookID   int64
	Quantity int
	OwnerID  int64
}

type Repo interface {
	// Tx methods: cart mutations read stock and write quantity inside one
	// transaction owned by the service.
	EnsureCart(ctx context.Context, tx *sql.Tx, userID int64) (int64, error)
	BookStock(ctx context.Context, tx *sql.Tx, bookID int64) (int64, error)
	ItemByBook(ctx context.Context, tx *sql.Tx, cartID, bookID int64) (*Item, error)
	ItemForUpdate(ctx context.Context, tx *sql.Tx, itemID int64) (*Item, error)
	InsertItem(ctx context.Context, tx *sql.Tx, cartID, bookID int64, qty int) error
	UpdateItemQty(ctx context.Context, tx *sql.Tx, itemID int64, qty int) error
	DeleteItem(ctx context.Context, tx *sql.Tx, itemID int64) error

	Items(ctx context.Context, userID int64) ([]model.CartItem, error)
	Clear(ctx context.Context, userID int64) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) EnsureCart(ctx context.Context, tx *sql.Tx, userID int64) (int64, error) {
	const q = `
INSERT INTO cart (user_id)
VALUES ($1)
ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
RETURNING id`
	var id int64
	err := tx.QueryRowContext(ctx, q, userID).Scan(&id)
	return id, err
}

func (r *repo) BookStock(ctx context.Context, tx *sql.Tx, bookID int64) (int64, error) {
	const q = `SELECT stock FROM books WHERE id=$1`
	var stock int64
	err := tx.QueryRowContext(ctx, q, bookID).Scan(&stock)
	return stock, err
}

func (r *repo) ItemByBook(ctx context.Context, tx *sql.Tx, cartID, bookID int64) (*Item, error) {
	const q = `
SELECT ci.id, ci.cart_id, ci.book_id, ci.quantity, c.user_id
FROM cart_items ci
JOIN cart c ON c.id = ci.cart_id
WHERE ci.cart_id=$1 AND ci.book_id=$2`
	return scanItem(tx.QueryRowContext(ctx, q, cartID, bookID))
}

func (r *repo) ItemForUpdate(ctx context.Context, tx *sql.Tx, itemID int64) (*Item, error) {
	const q = `
SELECT ci.id, ci.cart_id, ci.book_id, ci.quantity, c.user_id
FROM cart_items ci
JOIN cart c ON c.id = ci.cart_id
WHERE ci.id=$1
FOR UPDATE OF ci`
	return scanItem(tx.QueryRowContext(ctx, q, itemID))
}

func scanItem(row *sql.Row) (*Item, error) {
	it := &Item{}
	if err := row.Scan(&it.ID, &it.CartID, &it.BookID, &it.Quantity, &it.OwnerID); err != nil {
		return nil, err
	}
	return it, nil
}

func (r *repo) InsertItem(ctx context.Context, tx *sql.Tx, cartID, bookID int64, qty int) error {
	const q = `INSERT INTO cart_items (cart_id, book_id, quantity) VALUES ($1,$2,$3)`
	_, err := tx.ExecContext(ctx, q, cartID, bookID, qty)
	return err
}

func (r *repo) UpdateItemQty(ctx context.Context, tx *sql.Tx, itemID int64, qty int) error {
	const q = `UPDATE cart_items SET quantity=$2 WHERE id=$1`
	_, err := tx.ExecContext(ctx, q, itemID, qty)
	return err
}

func (r *repo) DeleteItem(ctx context.Context, tx *sql.Tx, itemID int64) error {
	const q = `DELETE FROM cart_items WHERE id=$1`
	_, err := tx.ExecContext(ctx, q, itemID)
	return err
}

func (r *repo) Items(ctx context.Context, userID int64) ([]model.CartItem, error) {
	const q = `
SELECT ci.id, b.id, b.title, b.price, ci.quantity, b.stock
FROM cart_items ci
JOIN cart c ON c.id = ci.cart_id
JOIN books b ON b.id = ci.book_id
WHERE c.user_id=$1
ORDER BY ci.id`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CartItem
	for rows.Next() {
		var it model.CartItem
		if err := rows.Scan(&it.ID, &it.BookID, &it.Title, &it.Price, &it.Quantity, &it.Stock); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// Clear is idempotent: clearing an empty or missing cart is not an error.
func (r *repo) Clear(ctx context.Context, userID int64) error {
	const q = `
DELETE FROM cart_items
WHERE cart_id IN (SELECT id FROM cart WHERE user_id=$1)`
	_, err := r.db.ExecContext(ctx, q, userID)
	return err
}
