// repository/library/libraryRepository.go
package libraryrepo

import (
	"context"
	"database/sql"

	"github.com/Siyemukel/Digital-online-bookstore/model"
)

// PurchasedBook is a distinct owned title; a book bought twice appears once.
type PurchasedBook struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

type Repo interface {
	ListPurchased(ctx context.Context, userID int64) ([]PurchasedBook, error)
	HasPurchased(ctx context.Context, userID, bookID int64) (bool, error)
	PurchasedDetail(ctx context.Context, userID, bookID int64) (*model.Book, error)
	Document(ctx context.Context, userID, bookID int64) ([]byte, error)

	AddFavorite(ctx context.Context, userID, bookID int64) (bool, error)
	ListFavorites(ctx context.Context, userID int64) ([]PurchasedBook, error)

	InsertReview(ctx context.Context, userID, bookID int64, rating int, comment string) error
	ListReviews(ctx context.Context, bookID int64) ([]model.Review, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) ListPurchased(ctx context.Context, userID int64) ([]PurchasedBook, error) {
	const q = `
SELECT DISTINCT b.id, b.title, b.author
FROM purchase_items pi
JOIN purchases p ON pi.purchase_id = p.id
JOIN books b ON pi.book_id = b.id
WHERE p.user_id = $1
ORDER BY b.id DESC`
	return r.queryBooks(ctx, q, userID)
}

func (r *repo) HasPurchased(ctx context.Context, userID, bookID int64) (bool, error) {
	const q = `
SELECT EXISTS (
    SELECT 1
    FROM purchase_items pi
    JOIN purchases p ON pi.purchase_id = p.id
    WHERE p.user_id = $1 AND pi.book_id = $2
)`
	var ok bool
	err := r.db.QueryRowContext(ctx, q, userID, bookID).Scan(&ok)
	return ok, err
}

func (r *repo) PurchasedDetail(ctx context.Context, userID, bookID int64) (*model.Book, error) {
	const q = `
SELECT b.id, b.title, b.author, COALESCE(b.description,''), b.category, b.price, b.stock, COALESCE(b.condition,''), b.created_at
FROM purchase_items pi
JOIN purchases p ON pi.purchase_id = p.id
JOIN books b ON pi.book_id = b.id
WHERE p.user_id = $1 AND b.id = $2
LIMIT 1`
	b := &model.Book{}
	err := r.db.QueryRowContext(ctx, q, userID, bookID).Scan(
		&b.ID, &b.Title, &b.Author, &b.Description, &b.Category, &b.Price, &b.Stock, &b.Condition, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repo) Document(ctx context.Context, userID, bookID int64) ([]byte, error) {
	const q = `
SELECT b.document
FROM purchase_items pi
JOIN purchases p ON pi.purchase_id = p.id
JOIN books b ON pi.book_id = b.id
WHERE p.user_id = $1 AND b.id = $2
LIMIT 1`
	var doc []byte
	if err := r.db.QueryRowContext(ctx, q, userID, bookID).Scan(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// AddFavorite reports false when the book was already favorited.
func (r *repo) AddFavorite(ctx context.Context, userID, bookID int64) (bool, error) {
	const q = `
INSERT INTO favorites (user_id, book_id)
VALUES ($1,$2)
ON CONFLICT (user_id, book_id) DO NOTHING`
	res, err := r.db.ExecContext(ctx, q, userID, bookID)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (r *repo) ListFavorites(ctx context.Context, userID int64) ([]PurchasedBook, error) {
	const q = `
SELECT b.id, b.title, b.author
FROM favorites f
JOIN books b ON f.book_id = b.id
WHERE f.user_id = $1
ORDER BY f.id DESC`
	return r.queryBooks(ctx, q, userID)
}

func (r *repo) queryBooks(ctx context.Context, q string, args ...any) ([]PurchasedBook, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PurchasedBook
	for rows.Next() {
		var b PurchasedBook
		if err := rows.Scan(&b.ID, &b.Title, &b.Author); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *repo) InsertReview(ctx context.Context, userID, bookID int64, rating int, comment string) error {
	const q = `
INSERT INTO reviews (user_id, book_id, rating, comment)
VALUES ($1,$2,$3,$4)`
	_, err := r.db.ExecContext(ctx, q, userID, bookID, rating, comment)
	return err
}

func (r *repo) ListReviews(ctx context.Context, bookID int64) ([]model.Review, error) {
	const q = `
SELECT r.id, r.user_id, r.book_id, r.rating, COALESCE(r.comment,''), u.email, r.created_at
FROM reviews r
JOIN users u ON r.user_id = u.id
WHERE r.book_id=$1
ORDER BY r.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Review
	for rows.Next() {
		var rv model.Review
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.BookID, &rv.Rating, &rv.Comment, &rv.Email, &rv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}
