// service/cart/cart_service_test.go
package cartsvc

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/Siyemukel/Digital-online-bookstore/model"
	cartrepo "github.com/Siyemukel/Digital-online-bookstore/repository/cart"
)

type mockRepo struct {
	ensureCartFn    func(ctx context.Context, tx *sql.Tx, userID int64) (int64, error)
	bookStockFn     func(ctx context.Context, tx *sql.Tx, bookID int64) (int64, error)
	itemByBookFn    func(ctx context.Context, tx *sql.Tx, cartID, bookID int64) (*cartrepo.Item, error)
	itemForUpdateFn func(ctx context.Context, tx *sql.Tx, itemID int64) (*cartrepo.Item, error)
	insertItemFn    func(ctx context.Context, tx *sql.Tx, cartID, bookID int64, qty int) error
	updateItemQtyFn func(ctx context.Context, tx *sql.Tx, itemID int64, qty int) error
	deleteItemFn    func(ctx context.Context, tx *sql.Tx, itemID int64) error
	itemsFn         func(ctx context.Context, userID int64) ([]model.CartItem, error)
	clearFn         func(ctx context.Context, userID int64) error
}

var _ cartrepo.Repo = (*mockRepo)(nil)

func (m *mockRepo) EnsureCart(ctx context.Context, tx *sql.Tx, userID int64) (int64, error) {
	return m.ensureCartFn(ctx, tx, userID)
}
func (m *mockRepo) BookStock(ctx context.Context, tx *sql.Tx, bookID int64) (int64, error) {
	return m.bookStockFn(ctx, tx, bookID)
}
func (m *mockRepo) ItemByBook(ctx context.Context, tx *sql.Tx, cartID, bookID int64) (*cartrepo.Item, error) {
	return m.itemByBookFn(ctx, tx, cartID, bookID)
}
func (m *mockRepo) ItemForUpdate(ctx context.Context, tx *sql.Tx, itemID int64) (*cartrepo.Item, error) {
	return m.itemForUpdateFn(ctx, tx, itemID)
}
func (m *mockRepo) InsertItem(ctx context.Context, tx *sql.Tx, cartID, bookID int64, qty int) error {
	return m.insertItemFn(ctx, tx, cartID, bookID, qty)
}
func (m *mockRepo) UpdateItemQty(ctx context.Context, tx *sql.Tx, itemID int64, qty int) error {
	return m.updateItemQtyFn(ctx, tx, itemID, qty)
}
func (m *mockRepo) DeleteItem(ctx context.Context, tx *sql.Tx, itemID int64) error {
	return m.deleteItemFn(ctx, tx, itemID)
}
func (m *mockRepo) Items(ctx context.Context, userID int64) ([]model.CartItem, error) {
	return m.itemsFn(ctx, userID)
}
func (m *mockRepo) Clear(ctx context.Context, userID int64) error {
	return m.clearFn(ctx, userID)
}

func newTxDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestAdd_NewItem(t *testing.T) {
	db, mock := newTxDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	var inserted bool
	m := &mockRepo{
		bookStockFn: func(ctx context.Context, tx *sql.Tx, bookID int64) (int64, error) {
			return 5, nil
		},
		ensureCartFn: func(ctx context.Context, tx *sql.Tx, userID int64) (int64, error) {
			return 11, nil
		},
		itemByBookFn: func(ctx context.Context, tx *sql.Tx, cartID, bookID int64) (*cartrepo.Item, error) {
			return nil, sql.ErrNoRows
		},
		insertItemFn: func(ctx context.Context, tx *sql.Tx, cartID, bookID int64, qty int) error {
			require.Equal(t, int64(11), cartID)
			require.Equal(t, 1, qty)
			inserted = true
			return nil
		},
	}

	err := New(db, m).Add(context.Background(), 1, 42)
	require.NoError(t, err)
	require.True(t, inserted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdd_ExistingItemBumps(t *testing.T) {
	db, mock := newTxDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	var gotQty int
	m := &mockRepo{
		bookStockFn: func(ctx context.Context, tx *sql.Tx, bookID int64) (int64, error) {
			return 5, nil
		},
		ensureCartFn: func(ctx context.Context, tx *sql.Tx, userID int64) (int64, error) {
			return 11, nil
		},
		itemByBookFn: func(ctx context.Context, tx *sql.Tx, cartID, bookID int64) (*cartrepo.Item, error) {
			return &cartrepo.Item{ID: 3, CartID: 11, BookID: 42, Quantity: 2, OwnerID: 1}, nil
		},
		updateItemQtyFn: func(ctx context.Context, tx *sql.Tx, itemID int64, qty int) error {
			gotQty = qty
			return nil
		},
	}

	err := New(db, m).Add(context.Background(), 1, 42)
	require.NoError(t, err)
	require.Equal(t, 3, gotQty)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdd_BookMissing(t *testing.T) {
	db, mock := newTxDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	m := &mockRepo{
		bookStockFn: func(ctx context.Context, tx *sql.Tx, bookID int64) (int64, error) {
			return 0, sql.ErrNoRows
		},
	}

	err := New(db, m).Add(context.Background(), 1, 42)
	require.Error(t, err)
	require.Equal(t, ErrBookNotFound, Code(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdd_AtStockCeiling(t *testing.T) {
	db, mock := newTxDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	m := &mockRepo{
		bookStockFn: func(ctx context.Context, tx *sql.Tx, bookID int64) (int64, error) {
			return 2, nil
		},
		ensureCartFn: func(ctx context.Context, tx *sql.Tx, userID int64) (int64, error) {
			return 11, nil
		},
		itemByBookFn: func(ctx context.Context, tx *sql.Tx, cartID, bookID int64) (*cartrepo.Item, error) {
			return &cartrepo.Item{ID: 3, Quantity: 2, BookID: 42, OwnerID: 1}, nil
		},
	}

	err := New(db, m).Add(context.Background(), 1, 42)
	require.Error(t, err)
	require.Equal(t, ErrStockExceeded, Code(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrease_StockCeiling(t *testing.T) {
	db, mock := newTxDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	m := &mockRepo{
		itemForUpdateFn: func(ctx context.Context, tx *sql.Tx, itemID int64) (*cartrepo.Item, error) {
			return &cartrepo.Item{ID: 3, BookID: 42, Quantity: 4, OwnerID: 1}, nil
		},
		bookStockFn: func(ctx context.Context, tx *sql.Tx, bookID int64) (int64, error) {
			return 4, nil
		},
	}

	err := New(db, m).Increase(context.Background(), 1, 3)
	require.Error(t, err)
	require.Equal(t, ErrStockExceeded, Code(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDecrease_AtFloorRejected(t *testing.T) {
	db, mock := newTxDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	m := &mockRepo{
		itemForUpdateFn: func(ctx context.Context, tx *sql.Tx, itemID int64) (*cartrepo.Item, error) {
			return &cartrepo.Item{ID: 3, BookID: 42, Quantity: 1, OwnerID: 1}, nil
		},
		updateItemQtyFn: func(ctx context.Context, tx *sql.Tx, itemID int64, qty int) error {
			t.Fatal("quantity must not change at the floor")
			return nil
		},
	}

	err := New(db, m).Decrease(context.Background(), 1, 3)
	require.Error(t, err)
	require.Equal(t, ErrQtyFloor, Code(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjust_OtherUsersItem(t *testing.T) {
	db, mock := newTxDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	m := &mockRepo{
		itemForUpdateFn: func(ctx context.Context, tx *sql.Tx, itemID int64) (*cartrepo.Item, error) {
			return &cartrepo.Item{ID: 3, BookID: 42, Quantity: 2, OwnerID: 99}, nil
		},
	}

	err := New(db, m).Increase(context.Background(), 1, 3)
	require.Error(t, err)
	require.Equal(t, ErrNotOwner, Code(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRemove_Success(t *testing.T) {
	db, mock := newTxDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	var deleted int64
	m := &mockRepo{
		itemForUpdateFn: func(ctx context.Context, tx *sql.Tx, itemID int64) (*cartrepo.Item, error) {
			return &cartrepo.Item{ID: itemID, BookID: 42, Quantity: 2, OwnerID: 1}, nil
		},
		deleteItemFn: func(ctx context.Context, tx *sql.Tx, itemID int64) error {
			deleted = itemID
			return nil
		},
	}

	err := New(db, m).Remove(context.Background(), 1, 3)
	require.NoError(t, err)
	require.Equal(t, int64(3), deleted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRemove_Missing(t *testing.T) {
	db, mock := newTxDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	m := &mockRepo{
		itemForUpdateFn: func(ctx context.Context, tx *sql.Tx, itemID int64) (*cartrepo.Item, error) {
			return nil, sql.ErrNoRows
		},
	}

	err := New(db, m).Remove(context.Background(), 1, 3)
	require.Error(t, err)
	require.Equal(t, ErrItemNotFound, Code(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCodeExtractor(t *testing.T) {
	require.Equal(t, ErrQtyFloor, Code(makeErr(ErrQtyFloor)))
	require.Equal(t, ErrCode(""), Code(errors.New("plain")))
}
