package cartsvc

import (
	"context"
	"database/sql"
	"errors"

	cartrepo "github.com/Siyemukel/Digital-online-bookstore/repository/cart"

	"github.com/Siyemukel/Digital-online-bookstore/model"
)

// errors used by controllers

type ErrCode string

const (
	ErrBookNotFound  ErrCode = "BOOK_NOT_FOUND"
	ErrItemNotFound  ErrCode = "ITEM_NOT_FOUND"
	ErrNotOwner      ErrCode = "NOT_OWNER"
	ErrStockExceeded ErrCode = "STOCK_EXCEEDED"
	ErrQtyFloor      ErrCode = "QTY_FLOOR"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type Service interface {
	// Add creates the cart lazily and adds one copy, or bumps an existing
	// line by one. Never touches stock.
	Add(ctx context.Context, userID, bookID int64) error
	Increase(ctx context.Context, userID, itemID int64) error
	Decrease(ctx context.Context, userID, itemID int64) error
	Remove(ctx context.Context, userID, itemID int64) error
	Clear(ctx context.Context, userID int64) error
	Items(ctx context.Context, userID int64) ([]model.CartItem, error)
}

type service struct {
	db *sql.DB
	r  cartrepo.Repo
}

func New(db *sql.DB, r cartrepo.Repo) Service { return &service{db: db, r: r} }

func (s *service) Add(ctx context.Context, userID, bookID int64) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stock, err := s.r.BookStock(ctx, tx, bookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrBookNotFound)
		}
		return err
	}
	if stock < 1 {
		return makeErr(ErrStockExceeded)
	}

	cartID, err := s.r.EnsureCart(ctx, tx, userID)
	if err != nil {
		return err
	}

	item, err := s.r.ItemByBook(ctx, tx, cartID, bookID)
	switch {
	case err == nil:
		if int64(item.Quantity)+1 > stock {
			return makeErr(ErrStockExceeded)
		}
		if err = s.r.UpdateItemQty(ctx, tx, item.ID, item.Quantity+1); err != nil {
			return err
		}
	case errors.Is(err, sql.ErrNoRows):
		if err = s.r.InsertItem(ctx, tx, cartID, bookID, 1); err != nil {
			return err
		}
	default:
		return err
	}

	return tx.Commit()
}

func (s *service) Increase(ctx context.Context, userID, itemID int64) error {
	return s.adjust(ctx, userID, itemID, +1)
}

func (s *service) Decrease(ctx context.Context, userID, itemID int64) error {
	return s.adjust(ctx, userID, itemID, -1)
}

// adjust moves a line's quantity by delta inside one transaction. Bounds are
// the current stock above and 1 below; a violated bound rolls back with a
// coded error and no row change.
func (s *service) adjust(ctx context.Context, userID, itemID int64, delta int) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	item, err := s.r.ItemForUpdate(ctx, tx, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrItemNotFound)
		}
		return err
	}
	if item.OwnerID != userID {
		return makeErr(ErrNotOwner)
	}

	newQty := item.Quantity + delta
	if newQty < 1 {
		return makeErr(ErrQtyFloor)
	}
	if delta > 0 {
		stock, err := s.r.BookStock(ctx, tx, item.BookID)
		if err != nil {
			return err
		}
		if int64(newQty) > stock {
			return makeErr(ErrStockExceeded)
		}
	}

	if err = s.r.UpdateItemQty(ctx, tx, itemID, newQty); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *service) Remove(ctx context.Context, userID, itemID int64) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	item, err := s.r.ItemForUpdate(ctx, tx, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrItemNotFound)
		}
		return err
	}
	if item.OwnerID != userID {
		return makeErr(ErrNotOwner)
	}

	if err = s.r.DeleteItem(ctx, tx, itemID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *service) Clear(ctx context.Context, userID int64) error {
	return s.r.Clear(ctx, userID)
}

func (s *service) Items(ctx context.Context, userID int64) ([]model.CartItem, error) {
	return s.r.Items(ctx, userID)
}
