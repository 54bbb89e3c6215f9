package librarysvc

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Siyemukel/Digital-online-bookstore/model"
	libraryrepo "github.com/Siyemukel/Digital-online-bookstore/repository/library"
)

var (
	ErrNotOwned  = errors.New("book not in library")
	ErrBadRating = errors.New("rating must be between 1 and 5")
)

type Service interface {
	Purchased(ctx context.Context, userID int64) ([]libraryrepo.PurchasedBook, error)
	// Detail and Document only work on books the user actually bought.
	Detail(ctx context.Context, userID, bookID int64) (*model.Book, error)
	Document(ctx context.Context, userID, bookID int64) ([]byte, error)

	// Favorite reports whether the book was newly added.
	Favorite(ctx context.Context, userID, bookID int64) (bool, error)
	Favorites(ctx context.Context, userID int64) ([]libraryrepo.PurchasedBook, error)

	Review(ctx context.Context, userID, bookID int64, rating int, comment string) error
	Reviews(ctx context.Context, bookID int64) ([]model.Review, error)
}

type service struct{ r libraryrepo.Repo }

func New(r libraryrepo.Repo) Service { return &service{r: r} }

func (s *service) Purchased(ctx context.Context, userID int64) ([]libraryrepo.PurchasedBook, error) {
	return s.r.ListPurchased(ctx, userID)
}

func (s *service) Detail(ctx context.Context, userID, bookID int64) (*model.Book, error) {
	b, err := s.r.PurchasedDetail(ctx, userID, bookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotOwned
		}
		return nil, err
	}
	return b, nil
}

func (s *service) Document(ctx context.Context, userID, bookID int64) ([]byte, error) {
	doc, err := s.r.Document(ctx, userID, bookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotOwned
		}
		return nil, err
	}
	return doc, nil
}

func (s *service) Favorite(ctx context.Context, userID, bookID int64) (bool, error) {
	owned, err := s.r.HasPurchased(ctx, userID, bookID)
	if err != nil {
		return false, err
	}
	if !owned {
		return false, ErrNotOwned
	}
	return s.r.AddFavorite(ctx, userID, bookID)
}

func (s *service) Favorites(ctx context.Context, userID int64) ([]libraryrepo.PurchasedBook, error) {
	return s.r.ListFavorites(ctx, userID)
}

func (s *service) Review(ctx context.Context, userID, bookID int64, rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return ErrBadRating
	}
	owned, err := s.r.HasPurchased(ctx, userID, bookID)
	if err != nil {
		return err
	}
	if !owned {
		return ErrNotOwned
	}
	return s.r.InsertReview(ctx, userID, bookID, rating, comment)
}

func (s *service) Reviews(ctx context.Context, bookID int64) ([]model.Review, error) {
	return s.r.ListReviews(ctx, bookID)
}
