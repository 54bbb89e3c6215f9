package deliverysvc

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Siyemukel/Digital-online-bookstore/model"
	deliveryrepo "github.com/Siyemukel/Digital-online-bookstore/repository/delivery"
)

type ErrCode string

const (
	ErrNotFound       ErrCode = "DELIVERY_NOT_FOUND"
	ErrBadTransition  ErrCode = "BAD_TRANSITION"
	ErrNotYourRoute   ErrCode = "NOT_YOUR_ROUTE"
	ErrDriverRequired ErrCode = "DRIVER_REQUIRED"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// next maps each status to the only status allowed to follow it. The chain
// runs strictly forward; anything else is rejected before any write.
var next = map[model.DeliveryStatus]model.DeliveryStatus{
	model.DeliveryPending:         model.DeliveryDriverAssigned,
	model.DeliveryDriverAssigned:  model.DeliveryPickUpConfirmed,
	model.DeliveryPickUpConfirmed: model.DeliveryDelivered,
}

type Service interface {
	// Assign moves a Pending delivery to Driver Assigned.
	Assign(ctx context.Context, deliveryID, driverID int64) error
	// ConfirmPickup moves Driver Assigned to Pick Up Confirmed. Only the
	// assigned driver may do it.
	ConfirmPickup(ctx context.Context, driverID, deliveryID int64) error
	// Complete moves Pick Up Confirmed to Delivered and stamps the time.
	Complete(ctx context.Context, driverID, deliveryID int64) error

	Pending(ctx context.Context) ([]deliveryrepo.PendingRow, error)
	Drivers(ctx context.Context) ([]deliveryrepo.DriverOption, error)
	ForDriver(ctx context.Context, driverID int64) ([]deliveryrepo.PendingRow, error)
	HistoryForUser(ctx context.Context, userID int64) ([]deliveryrepo.HistoryRow, error)
	Track(ctx context.Context, userID, deliveryID int64) (*model.Delivery, error)
}

type service struct {
	db *sql.DB
	r  deliveryrepo.Repo
}

func New(db *sql.DB, r deliveryrepo.Repo) Service { return &service{db: db, r: r} }

func (s *service) Assign(ctx context.Context, deliveryID, driverID int64) error {
	return s.transition(ctx, deliveryID, model.DeliveryDriverAssigned, func(d *model.Delivery, tx *sql.Tx) error {
		return s.r.Assign(ctx, tx, deliveryID, driverID)
	}, nil)
}

func (s *service) ConfirmPickup(ctx context.Context, driverID, deliveryID int64) error {
	return s.transition(ctx, deliveryID, model.DeliveryPickUpConfirmed, func(d *model.Delivery, tx *sql.Tx) error {
		return s.r.MarkPickedUp(ctx, tx, deliveryID)
	}, &driverID)
}

func (s *service) Complete(ctx context.Context, driverID, deliveryID int64) error {
	return s.transition(ctx, deliveryID, model.DeliveryDelivered, func(d *model.Delivery, tx *sql.Tx) error {
		return s.r.MarkDelivered(ctx, tx, deliveryID)
	}, &driverID)
}

// transition locks the row, checks the status chain and the acting driver,
// then applies the write. An illegal step rolls back untouched.
func (s *service) transition(ctx context.Context, deliveryID int64, to model.DeliveryStatus, apply func(*model.Delivery, *sql.Tx) error, driverID *int64) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	d, err := s.r.GetForUpdate(ctx, tx, deliveryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}

	if next[d.Status] != to {
		return makeErr(ErrBadTransition)
	}
	if driverID != nil {
		if d.DriverID == nil {
			return makeErr(ErrDriverRequired)
		}
		if *d.DriverID != *driverID {
			return makeErr(ErrNotYourRoute)
		}
	}

	if err = apply(d, tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *service) Pending(ctx context.Context) ([]deliveryrepo.PendingRow, error) {
	return s.r.ListPending(ctx)
}

func (s *service) Drivers(ctx context.Context) ([]deliveryrepo.DriverOption, error) {
	return s.r.ListDrivers(ctx)
}

func (s *service) ForDriver(ctx context.Context, driverID int64) ([]deliveryrepo.PendingRow, error) {
	return s.r.ListByDriver(ctx, driverID)
}

func (s *service) HistoryForUser(ctx context.Context, userID int64) ([]deliveryrepo.HistoryRow, error) {
	return s.r.ListByUser(ctx, userID)
}

func (s *service) Track(ctx context.Context, userID, deliveryID int64) (*model.Delivery, error) {
	d, err := s.r.GetForUser(ctx, deliveryID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return d, nil
}
