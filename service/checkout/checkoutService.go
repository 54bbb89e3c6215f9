package checkoutsvc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Siyemukel/Digital-online-bookstore/model"
	cartrepo "github.com/Siyemukel/Digital-online-bookstore/repository/cart"
	checkoutrepo "github.com/Siyemukel/Digital-online-bookstore/repository/checkout"
	paypalrepo "github.com/Siyemukel/Digital-online-bookstore/repository/paypal"
	purchaserepo "github.com/Siyemukel/Digital-online-bookstore/repository/purchase"
)

type ErrCode string

const (
	ErrCartEmpty       ErrCode = "CART_EMPTY"
	ErrAddressRequired ErrCode = "ADDRESS_REQUIRED"
	ErrBadMethod       ErrCode = "BAD_METHOD"
	ErrPaymentInit     ErrCode = "PAYMENT_INIT_FAILED"
	ErrAttemptNotFound ErrCode = "ATTEMPT_NOT_FOUND"
	ErrNotYourPayment  ErrCode = "NOT_YOUR_PAYMENT"
	ErrOrderNotFound   ErrCode = "ORDER_NOT_FOUND"
	ErrPaymentDeclined ErrCode = "PAYMENT_DECLINED"
	ErrStockChanged    ErrCode = "STOCK_CHANGED"
)

type codedError struct {
	code ErrCode
	err  error
}

func (e codedError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.code, e.err)
	}
	return string(e.code)
}
func (e codedError) Code() ErrCode { return e.code }
func (e codedError) Unwrap() error { return e.err }

func makeErr(c ErrCode) error         { return codedError{code: c} }
func wrap(c ErrCode, err error) error { return codedError{code: c, err: err} }

func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// attemptTTL bounds how long an approval link stays valid. An expired
// attempt simply disappears from redis and confirmation fails closed.
const attemptTTL = 15 * time.Minute

var deliveryFee = decimal.RequireFromString("30.00")

type StartResult struct {
	PaymentID   string          `json:"payment_id"`
	ApprovalURL string          `json:"approval_url"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Fee         decimal.Decimal `json:"fee"`
	Total       decimal.Decimal `json:"total"`
}

type ConfirmResult struct {
	PurchaseID int64           `json:"purchase_id"`
	Total      decimal.Decimal `json:"total"`
}

type Service interface {
	// Start prices the cart, creates the external payment and parks the
	// attempt in redis. Nothing is written to Postgres.
	Start(ctx context.Context, userID int64, method, address string) (*StartResult, error)
	// Confirm executes the approved payment and finalizes the purchase in
	// one transaction. The attempt must belong to the calling user.
	Confirm(ctx context.Context, userID int64, paymentID, payerID string) (*ConfirmResult, error)
	// Cancel discards a pending attempt. Unknown ids are not an error, the
	// TTL would have reaped them anyway.
	Cancel(ctx context.Context, userID int64, paymentID string) error

	Orders(ctx context.Context, userID int64) ([]model.Purchase, error)
	OrderItems(ctx context.Context, userID, purchaseID int64) ([]model.PurchaseItem, error)
}

type service struct {
	db        *sql.DB
	carts     cartrepo.Repo
	purchases purchaserepo.Repo
	paypal    paypalrepo.Repo
	attempts  checkoutrepo.AttemptStore
	returnURL string
	cancelURL string
}

func New(db *sql.DB, carts cartrepo.Repo, purchases purchaserepo.Repo, paypal paypalrepo.Repo, attempts checkoutrepo.AttemptStore, returnURL, cancelURL string) Service {
	return &service{
		db:        db,
		carts:     carts,
		purchases: purchases,
		paypal:    paypal,
		attempts:  attempts,
		returnURL: returnURL,
		cancelURL: cancelURL,
	}
}

func (s *service) Start(ctx context.Context, userID int64, method, address string) (*StartResult, error) {
	if method != model.MethodPickup && method != model.MethodDelivery {
		return nil, makeErr(ErrBadMethod)
	}
	if method == model.MethodDelivery && address == "" {
		return nil, makeErr(ErrAddressRequired)
	}

	items, err := s.carts.Items(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, makeErr(ErrCartEmpty)
	}

	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	fee := decimal.Zero
	if method == model.MethodDelivery {
		fee = deliveryFee
	}
	total := subtotal.Add(fee)

	resp, err := s.paypal.CreatePayment(paypalrepo.CreatePaymentReq{
		Total:       total,
		Currency:    "USD",
		Description: fmt.Sprintf("Bookstore order, %d item line(s)", len(items)),
		ReturnURL:   s.returnURL,
		CancelURL:   s.cancelURL,
	})
	if err != nil {
		return nil, wrap(ErrPaymentInit, err)
	}

	attempt := &checkoutrepo.Attempt{
		PaymentID: resp.PaymentID,
		UserID:    userID,
		Subtotal:  subtotal,
		Fee:       fee,
		Total:     total,
		Method:    method,
		Address:   address,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.attempts.Save(ctx, attempt, attemptTTL); err != nil {
		return nil, err
	}

	return &StartResult{
		PaymentID:   resp.PaymentID,
		ApprovalURL: resp.ApprovalURL,
		Subtotal:    subtotal,
		Fee:         fee,
		Total:       total,
	}, nil
}

func (s *service) Confirm(ctx context.Context, userID int64, paymentID, payerID string) (*ConfirmResult, error) {
	attempt, err := s.attempts.Find(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if attempt == nil {
		return nil, makeErr(ErrAttemptNotFound)
	}
	if attempt.UserID != userID {
		return nil, makeErr(ErrNotYourPayment)
	}

	approved, err := s.paypal.ExecutePayment(paymentID, payerID)
	if err != nil {
		return nil, err
	}
	if !approved {
		return nil, makeErr(ErrPaymentDeclined)
	}

	purchaseID, err := s.finalize(ctx, attempt)
	if err != nil {
		return nil, err
	}

	// Best effort, the TTL reaps stale attempts regardless.
	_ = s.attempts.Delete(ctx, paymentID)

	return &ConfirmResult{PurchaseID: purchaseID, Total: attempt.Total}, nil
}

// finalize writes the purchase, its items, the stock decrements, the cart
// wipe and the delivery row in a single transaction. Any failure, including
// stock that shrank since the cart was priced, rolls everything back.
func (s *service) finalize(ctx context.Context, attempt *checkoutrepo.Attempt) (purchaseID int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	items, err := s.carts.Items(ctx, attempt.UserID)
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, makeErr(ErrCartEmpty)
	}

	purchaseID, err = s.purchases.InsertPurchase(ctx, tx, attempt.UserID, attempt.Total, attempt.PaymentID)
	if err != nil {
		return 0, err
	}

	for _, it := range items {
		price, err2 := s.purchases.PriceForUpdate(ctx, tx, it.BookID)
		if err2 != nil {
			err = err2
			return 0, err
		}
		if err = s.purchases.InsertItem(ctx, tx, purchaseID, it.BookID, it.Quantity, price); err != nil {
			return 0, err
		}
		if err = s.purchases.DecrementStock(ctx, tx, it.BookID, it.Quantity); err != nil {
			if errors.Is(err, purchaserepo.ErrInsufficientStock) {
				err = wrap(ErrStockChanged, err)
			}
			return 0, err
		}
	}

	if err = s.purchases.DeleteCartItems(ctx, tx, attempt.UserID); err != nil {
		return 0, err
	}
	if attempt.Method == model.MethodDelivery {
		if err = s.purchases.InsertDelivery(ctx, tx, purchaseID, attempt.Address); err != nil {
			return 0, err
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return purchaseID, nil
}

func (s *service) Cancel(ctx context.Context, userID int64, paymentID string) error {
	attempt, err := s.attempts.Find(ctx, paymentID)
	if err != nil {
		return err
	}
	if attempt == nil {
		return nil
	}
	if attempt.UserID != userID {
		return makeErr(ErrNotYourPayment)
	}
	return s.attempts.Delete(ctx, paymentID)
}

func (s *service) Orders(ctx context.Context, userID int64) ([]model.Purchase, error) {
	return s.purchases.ListByUser(ctx, userID)
}

// OrderItems checks the purchase belongs to the user before listing lines.
func (s *service) OrderItems(ctx context.Context, userID, purchaseID int64) ([]model.PurchaseItem, error) {
	orders, err := s.purchases.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		if o.ID == purchaseID {
			return s.purchases.ItemsForPurchase(ctx, purchaseID)
		}
	}
	return nil, makeErr(ErrOrderNotFound)
}
