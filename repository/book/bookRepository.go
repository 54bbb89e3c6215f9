package bookrepo

import (
	"context"
	"database/sql"

	"github.com/Siyemukel/Digital-online-bookstore/model"
)

type CategoryCount struct {
	Category string
	Quantity int64
}

type Repo interface {
	Create(ctx context.Context, b *model.Book, cover, document []byte) (int64, error)
	Update(ctx context.Context, b *model.Book, cover []byte) error
	List(ctx context.Context) ([]model.BookSummary, error)
	Detail(ctx context.Context, id int64) (*model.Book, error)
	Search(ctx context.Context, query string) ([]model.BookSummary, error)

	Latest(ctx context.Context, limit int) ([]model.BookSummary, error)
	Popular(ctx context.Context, limit int) ([]model.BookSummary, error)
	PurchasedCategoryCounts(ctx context.Context, userID int64) ([]CategoryCount, error)
	NewestInCategory(ctx context.Context, category string, limit int) ([]model.BookSummary, error)
	NewestExcludingCategories(ctx context.Context, categories []string, limit int) ([]model.BookSummary, error)

	CoverImage(ctx context.Context, id int64) ([]byte, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const summaryCols = `id, title, author, category, price, stock`

func (r *repo) Create(ctx context.Context, b *model.Book, cover, document []byte) (int64, error) {
	const q = `
INSERT INTO books (title, author, description, category, price, stock, condition, cover_image, document)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
RETURNING id`
	var id int64
	err := r.db.QueryRowContext(ctx, q,
		b.Title, b.Author, b.Description, b.Category, b.Price, b.Stock, b.Condition, cover, document,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update replaces book details; the document is immutable after create, the
// cover only changes when a new one is supplied.
func (r *repo) Update(ctx context.Context, b *model.Book, cover []byte) error {
	if cover != nil {
		const q = `
UPDATE books
SET title=$2, author=$3, description=$4, category=$5, price=$6, stock=$7, condition=$8, cover_image=$9
WHERE id=$1`
		_, err := r.db.ExecContext(ctx, q,
			b.ID, b.Title, b.Author, b.Description, b.Category, b.Price, b.Stock, b.Condition, cover)
		return err
	}
	const q = `
UPDATE books
SET title=$2, author=$3, description=$4, category=$5, price=$6, stock=$7, condition=$8
WHERE id=$1`
	_, err := r.db.ExecContext(ctx, q,
		b.ID, b.Title, b.Author, b.Description, b.Category, b.Price, b.Stock, b.Condition)
	return err
}

func (r *repo) List(ctx context.Context) ([]model.BookSummary, error) {
	return r.querySummaries(ctx, `
SELECT `+summaryCols+`
FROM books
ORDER BY id DESC`)
}

func (r *repo) Detail(ctx context.Context, id int64) (*model.Book, error) {
	const q = `
SELECT id, title, author, COALESCE(description,''), category, price, stock, COALESCE(condition,''), created_at
FROM books
WHERE id=$1`
	b := &model.Book{}
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&b.ID, &b.Title, &b.Author, &b.Description, &b.Category, &b.Price, &b.Stock, &b.Condition, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repo) Search(ctx context.Context, query string) ([]model.BookSummary, error) {
	const q = `
SELECT ` + summaryCols + `
FROM books
WHERE title ILIKE $1 OR author ILIKE $1 OR category ILIKE $1
ORDER BY id DESC`
	return r.querySummaries(ctx, q, "%"+query+"%")
}

func (r *repo) Latest(ctx context.Context, limit int) ([]model.BookSummary, error) {
	const q = `
SELECT ` + summaryCols + `
FROM books
ORDER BY id DESC
LIMIT $1`
	return r.querySummaries(ctx, q, limit)
}

func (r *repo) Popular(ctx context.Context, limit int) ([]model.BookSummary, error) {
	const q = `
SELECT b.id, b.title, b.author, b.category, b.price, b.stock
FROM books b
LEFT JOIN purchase_items pi ON pi.book_id = b.id
GROUP BY b.id
ORDER BY COALESCE(SUM(pi.quantity),0) DESC, b.id DESC
LIMIT $1`
	return r.querySummaries(ctx, q, limit)
}

func (r *repo) PurchasedCategoryCounts(ctx context.Context, userID int64) ([]CategoryCount, error) {
	const q = `
SELECT b.category, SUM(pi.quantity) AS cat_qty
FROM purchase_items pi
JOIN purchases p ON pi.purchase_id = p.id
JOIN books b ON pi.book_id = b.id
WHERE p.user_id = $1
GROUP BY b.category
ORDER BY cat_qty DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CategoryCount
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Category, &c.Quantity); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *repo) NewestInCategory(ctx context.Context, category string, limit int) ([]model.BookSummary, error) {
	const q = `
SELECT ` + summaryCols + `
FROM books
WHERE category=$1
ORDER BY id DESC
LIMIT $2`
	return r.querySummaries(ctx, q, category, limit)
}

func (r *repo) NewestExcludingCategories(ctx context.Context, categories []string, limit int) ([]model.BookSummary, error) {
	if len(categories) == 0 {
		return r.Latest(ctx, limit)
	}
	const q = `
SELECT ` + summaryCols + `
FROM books
WHERE category <> ALL($1)
ORDER BY id DESC
LIMIT $2`
	return r.querySummaries(ctx, q, categories, limit)
}

func (r *repo) CoverImage(ctx context.Context, id int64) ([]byte, error) {
	var cover []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT cover_image FROM books WHERE id=$1`, id,
	).Scan(&cover)
	if err != nil {
		return nil, err
	}
	return cover, nil
}

func (r *repo) querySummaries(ctx context.Context, q string, args ...any) ([]model.BookSummary, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.BookSummary
	for rows.Next() {
		var b model.BookSummary
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Category, &b.Price, &b.Stock); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
