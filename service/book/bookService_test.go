// service/book/book_service_test.go
package booksvc_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Siyemukel/Digital-online-bookstore/model"
	bookrepo "github.com/Siyemukel/Digital-online-bookstore/repository/book"
	booksvc "github.com/Siyemukel/Digital-online-bookstore/service/book"
)

type repoMock struct {
	bookrepo.Repo
	createFn             func(ctx context.Context, b *model.Book, cover, document []byte) (int64, error)
	detailFn             func(ctx context.Context, id int64) (*model.Book, error)
	latestFn             func(ctx context.Context, limit int) ([]model.BookSummary, error)
	categoryCountsFn     func(ctx context.Context, userID int64) ([]bookrepo.CategoryCount, error)
	newestInCategoryFn   func(ctx context.Context, category string, limit int) ([]model.BookSummary, error)
	newestExcludingFn    func(ctx context.Context, categories []string, limit int) ([]model.BookSummary, error)
}

func (m *repoMock) Create(ctx context.Context, b *model.Book, cover, document []byte) (int64, error) {
	return m.createFn(ctx, b, cover, document)
}
func (m *repoMock) Detail(ctx context.Context, id int64) (*model.Book, error) {
	return m.detailFn(ctx, id)
}
func (m *repoMock) Latest(ctx context.Context, limit int) ([]model.BookSummary, error) {
	return m.latestFn(ctx, limit)
}
func (m *repoMock) PurchasedCategoryCounts(ctx context.Context, userID int64) ([]bookrepo.CategoryCount, error) {
	return m.categoryCountsFn(ctx, userID)
}
func (m *repoMock) NewestInCategory(ctx context.Context, category string, limit int) ([]model.BookSummary, error) {
	return m.newestInCategoryFn(ctx, category, limit)
}
func (m *repoMock) NewestExcludingCategories(ctx context.Context, categories []string, limit int) ([]model.BookSummary, error) {
	return m.newestExcludingFn(ctx, categories, limit)
}

func sums(ids ...int64) []model.BookSummary {
	out := make([]model.BookSummary, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.BookSummary{ID: id})
	}
	return out
}

func TestCreate_RejectsNegativePrice(t *testing.T) {
	svc := booksvc.New(&repoMock{})
	_, err := svc.Create(context.Background(), &model.Book{
		Title: "X", Author: "Y", Price: decimal.RequireFromString("-1"),
	}, nil, nil)
	require.ErrorIs(t, err, booksvc.ErrBadPrice)
}

func TestCreate_Success(t *testing.T) {
	m := &repoMock{createFn: func(ctx context.Context, b *model.Book, cover, document []byte) (int64, error) {
		require.Equal(t, "Intro to Go", b.Title)
		return 42, nil
	}}
	svc := booksvc.New(m)

	id, err := svc.Create(context.Background(), &model.Book{
		Title: "Intro to Go", Author: "K&D", Price: decimal.RequireFromString("199.99"), Stock: 3,
	}, []byte("cover"), []byte("pdf"))
	require.NoError(t, err)
	require.Equal(t, int64(42), id)
}

func TestRecommended_NoHistoryFallsBackToLatest(t *testing.T) {
	m := &repoMock{
		categoryCountsFn: func(ctx context.Context, userID int64) ([]bookrepo.CategoryCount, error) {
			return nil, nil
		},
		latestFn: func(ctx context.Context, limit int) ([]model.BookSummary, error) {
			require.Equal(t, 5, limit)
			return sums(1, 2, 3), nil
		},
	}
	out, err := booksvc.New(m).Recommended(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, out, 3)
}

func TestRecommended_FillsFromRankedCategories(t *testing.T) {
	m := &repoMock{
		categoryCountsFn: func(ctx context.Context, userID int64) ([]bookrepo.CategoryCount, error) {
			return []bookrepo.CategoryCount{
				{Category: "Databases", Quantity: 8},
				{Category: "Networking", Quantity: 2},
			}, nil
		},
		newestInCategoryFn: func(ctx context.Context, category string, limit int) ([]model.BookSummary, error) {
			switch category {
			case "Databases":
				require.Equal(t, 5, limit)
				return sums(10, 11, 12), nil
			case "Networking":
				require.Equal(t, 2, limit)
				return sums(20, 21), nil
			}
			t.Fatalf("unexpected category %q", category)
			return nil, nil
		},
	}
	out, err := booksvc.New(m).Recommended(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, sums(10, 11, 12, 20, 21), out)
}

func TestRecommended_TopsUpOutsideOwnedCategories(t *testing.T) {
	m := &repoMock{
		categoryCountsFn: func(ctx context.Context, userID int64) ([]bookrepo.CategoryCount, error) {
			return []bookrepo.CategoryCount{{Category: "Databases", Quantity: 1}}, nil
		},
		newestInCategoryFn: func(ctx context.Context, category string, limit int) ([]model.BookSummary, error) {
			return sums(10), nil
		},
		newestExcludingFn: func(ctx context.Context, categories []string, limit int) ([]model.BookSummary, error) {
			require.Equal(t, []string{"Databases"}, categories)
			require.Equal(t, 4, limit)
			return sums(30, 31), nil
		},
	}
	out, err := booksvc.New(m).Recommended(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, sums(10, 30, 31), out)
}

func TestRecommended_DeduplicatesAcrossSources(t *testing.T) {
	m := &repoMock{
		categoryCountsFn: func(ctx context.Context, userID int64) ([]bookrepo.CategoryCount, error) {
			return []bookrepo.CategoryCount{{Category: "Databases", Quantity: 1}}, nil
		},
		newestInCategoryFn: func(ctx context.Context, category string, limit int) ([]model.BookSummary, error) {
			return sums(10, 11), nil
		},
		newestExcludingFn: func(ctx context.Context, categories []string, limit int) ([]model.BookSummary, error) {
			return sums(11, 30), nil
		},
	}
	out, err := booksvc.New(m).Recommended(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, sums(10, 11, 30), out)
}
