// service/library/library_service_test.go
package librarysvc_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	libraryrepo "github.com/Siyemukel/Digital-online-bookstore/repository/library"
	librarysvc "github.com/Siyemukel/Digital-online-bookstore/service/library"
)

type repoMock struct {
	libraryrepo.Repo
	hasPurchasedFn func(ctx context.Context, userID, bookID int64) (bool, error)
	documentFn     func(ctx context.Context, userID, bookID int64) ([]byte, error)
	addFavoriteFn  func(ctx context.Context, userID, bookID int64) (bool, error)
	insertReviewFn func(ctx context.Context, userID, bookID int64, rating int, comment string) error
}

func (m *repoMock) HasPurchased(ctx context.Context, userID, bookID int64) (bool, error) {
	return m.hasPurchasedFn(ctx, userID, bookID)
}
func (m *repoMock) Document(ctx context.Context, userID, bookID int64) ([]byte, error) {
	return m.documentFn(ctx, userID, bookID)
}
func (m *repoMock) AddFavorite(ctx context.Context, userID, bookID int64) (bool, error) {
	return m.addFavoriteFn(ctx, userID, bookID)
}
func (m *repoMock) InsertReview(ctx context.Context, userID, bookID int64, rating int, comment string) error {
	return m.insertReviewFn(ctx, userID, bookID, rating, comment)
}

func TestDocument_NotOwned(t *testing.T) {
	m := &repoMock{documentFn: func(ctx context.Context, userID, bookID int64) ([]byte, error) {
		return nil, sql.ErrNoRows
	}}
	_, err := librarysvc.New(m).Document(context.Background(), 7, 42)
	require.ErrorIs(t, err, librarysvc.ErrNotOwned)
}

func TestDocument_Owned(t *testing.T) {
	m := &repoMock{documentFn: func(ctx context.Context, userID, bookID int64) ([]byte, error) {
		return []byte("pdf-bytes"), nil
	}}
	doc, err := librarysvc.New(m).Document(context.Background(), 7, 42)
	require.NoError(t, err)
	require.Equal(t, []byte("pdf-bytes"), doc)
}

func TestFavorite_RequiresPurchase(t *testing.T) {
	m := &repoMock{hasPurchasedFn: func(ctx context.Context, userID, bookID int64) (bool, error) {
		return false, nil
	}}
	_, err := librarysvc.New(m).Favorite(context.Background(), 7, 42)
	require.ErrorIs(t, err, librarysvc.ErrNotOwned)
}

func TestFavorite_DuplicateIsNotAnError(t *testing.T) {
	m := &repoMock{
		hasPurchasedFn: func(ctx context.Context, userID, bookID int64) (bool, error) { return true, nil },
		addFavoriteFn:  func(ctx context.Context, userID, bookID int64) (bool, error) { return false, nil },
	}
	added, err := librarysvc.New(m).Favorite(context.Background(), 7, 42)
	require.NoError(t, err)
	require.False(t, added)
}

func TestReview_BadRating(t *testing.T) {
	svc := librarysvc.New(&repoMock{})
	require.ErrorIs(t, svc.Review(context.Background(), 7, 42, 0, ""), librarysvc.ErrBadRating)
	require.ErrorIs(t, svc.Review(context.Background(), 7, 42, 6, ""), librarysvc.ErrBadRating)
}

func TestReview_Success(t *testing.T) {
	var gotRating int
	m := &repoMock{
		hasPurchasedFn: func(ctx context.Context, userID, bookID int64) (bool, error) { return true, nil },
		insertReviewFn: func(ctx context.Context, userID, bookID int64, rating int, comment string) error {
			gotRating = rating
			return nil
		},
	}
	require.NoError(t, librarysvc.New(m).Review(context.Background(), 7, 42, 4, "solid read"))
	require.Equal(t, 4, gotRating)
}
