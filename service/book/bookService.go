package booksvc

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Siyemukel/Digital-online-bookstore/model"
	bookrepo "github.com/Siyemukel/Digital-online-bookstore/repository/book"
)

var (
	ErrNotFound = errors.New("book not found")
	ErrBadPrice = errors.New("price must not be negative")
	ErrBadStock = errors.New("stock must not be negative")
)

const recommendLimit = 5

type Service interface {
	Create(ctx context.Context, b *model.Book, cover, document []byte) (int64, error)
	Update(ctx context.Context, b *model.Book, cover []byte) error
	List(ctx context.Context) ([]model.BookSummary, error)
	Detail(ctx context.Context, id int64) (*model.Book, error)
	Search(ctx context.Context, query string) ([]model.BookSummary, error)
	Latest(ctx context.Context, limit int) ([]model.BookSummary, error)
	Popular(ctx context.Context, limit int) ([]model.BookSummary, error)
	// Recommended ranks the reader's purchased categories by volume and
	// fills up to five slots with the newest unread-category titles; buyers
	// with no history get the newest books overall.
	Recommended(ctx context.Context, userID int64) ([]model.BookSummary, error)
	Cover(ctx context.Context, id int64) ([]byte, error)
}

type service struct{ r bookrepo.Repo }

func New(r bookrepo.Repo) Service { return &service{r: r} }

func (s *service) Create(ctx context.Context, b *model.Book, cover, document []byte) (int64, error) {
	if b.Price.IsNegative() {
		return 0, ErrBadPrice
	}
	if b.Stock < 0 {
		return 0, ErrBadStock
	}
	return s.r.Create(ctx, b, cover, document)
}

func (s *service) Update(ctx context.Context, b *model.Book, cover []byte) error {
	if b.Price.IsNegative() {
		return ErrBadPrice
	}
	if b.Stock < 0 {
		return ErrBadStock
	}
	if _, err := s.r.Detail(ctx, b.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return s.r.Update(ctx, b, cover)
}

func (s *service) List(ctx context.Context) ([]model.BookSummary, error) {
	return s.r.List(ctx)
}

func (s *service) Detail(ctx context.Context, id int64) (*model.Book, error) {
	b, err := s.r.Detail(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *service) Search(ctx context.Context, query string) ([]model.BookSummary, error) {
	if query == "" {
		return s.r.List(ctx)
	}
	return s.r.Search(ctx, query)
}

func (s *service) Latest(ctx context.Context, limit int) ([]model.BookSummary, error) {
	if limit <= 0 {
		limit = recommendLimit
	}
	return s.r.Latest(ctx, limit)
}

func (s *service) Popular(ctx context.Context, limit int) ([]model.BookSummary, error) {
	if limit <= 0 {
		limit = recommendLimit
	}
	return s.r.Popular(ctx, limit)
}

func (s *service) Recommended(ctx context.Context, userID int64) ([]model.BookSummary, error) {
	counts, err := s.r.PurchasedCategoryCounts(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(counts) == 0 {
		return s.r.Latest(ctx, recommendLimit)
	}

	var out []model.BookSummary
	seen := make(map[int64]bool)
	cats := make([]string, 0, len(counts))
	for _, c := range counts {
		cats = append(cats, c.Category)
		if len(out) >= recommendLimit {
			continue
		}
		books, err := s.r.NewestInCategory(ctx, c.Category, recommendLimit-len(out))
		if err != nil {
			return nil, err
		}
		for _, b := range books {
			if !seen[b.ID] {
				seen[b.ID] = true
				out = append(out, b)
			}
		}
	}

	// Top up from outside the reader's categories when they are thin.
	if len(out) < recommendLimit {
		rest, err := s.r.NewestExcludingCategories(ctx, cats, recommendLimit-len(out))
		if err != nil {
			return nil, err
		}
		for _, b := range rest {
			if !seen[b.ID] {
				seen[b.ID] = true
				out = append(out, b)
			}
		}
	}
	return out, nil
}

func (s *service) Cover(ctx context.Context, id int64) ([]byte, error) {
	cover, err := s.r.CoverImage(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return cover, nil
}
