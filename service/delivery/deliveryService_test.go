// service/delivery/delivery_service_test.go
package deliverysvc

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/Siyemukel/Digital-online-bookstore/model"
	deliveryrepo "github.com/Siyemukel/Digital-online-bookstore/repository/delivery"
)

type mockRepo struct {
	deliveryrepo.Repo
	getForUpdateFn  func(ctx context.Context, tx *sql.Tx, deliveryID int64) (*model.Delivery, error)
	assignFn        func(ctx context.Context, tx *sql.Tx, deliveryID, driverID int64) error
	markPickedUpFn  func(ctx context.Context, tx *sql.Tx, deliveryID int64) error
	markDeliveredFn func(ctx context.Context, tx *sql.Tx, deliveryID int64) error
}

func (m *mockRepo) GetForUpdate(ctx context.Context, tx *sql.Tx, deliveryID int64) (*model.Delivery, error) {
	return m.getForUpdateFn(ctx, tx, deliveryID)
}
func (m *mockRepo) Assign(ctx context.Context, tx *sql.Tx, deliveryID, driverID int64) error {
	return m.assignFn(ctx, tx, deliveryID, driverID)
}
func (m *mockRepo) MarkPickedUp(ctx context.Context, tx *sql.Tx, deliveryID int64) error {
	return m.markPickedUpFn(ctx, tx, deliveryID)
}
func (m *mockRepo) MarkDelivered(ctx context.Context, tx *sql.Tx, deliveryID int64) error {
	return m.markDeliveredFn(ctx, tx, deliveryID)
}

func newTxDB(t *testing.T, commit bool) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
	return db, mock
}

func delivery(status model.DeliveryStatus, driverID *int64) *model.Delivery {
	return &model.Delivery{ID: 5, PurchaseID: 9, DriverID: driverID, Address: "12 Library Lane", Status: status}
}

func TestAssign_FromPending(t *testing.T) {
	db, mock := newTxDB(t, true)

	var assigned int64
	m := &mockRepo{
		getForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.Delivery, error) {
			return delivery(model.DeliveryPending, nil), nil
		},
		assignFn: func(ctx context.Context, tx *sql.Tx, deliveryID, driverID int64) error {
			assigned = driverID
			return nil
		},
	}

	require.NoError(t, New(db, m).Assign(context.Background(), 5, 30))
	require.Equal(t, int64(30), assigned)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssign_AlreadyAssignedRejected(t *testing.T) {
	db, mock := newTxDB(t, false)

	drv := int64(30)
	m := &mockRepo{
		getForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.Delivery, error) {
			return delivery(model.DeliveryDriverAssigned, &drv), nil
		},
		assignFn: func(ctx context.Context, tx *sql.Tx, deliveryID, driverID int64) error {
			t.Fatal("no write on an illegal transition")
			return nil
		},
	}

	err := New(db, m).Assign(context.Background(), 5, 31)
	require.Error(t, err)
	require.Equal(t, ErrBadTransition, Code(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmPickup_HappyPath(t *testing.T) {
	db, mock := newTxDB(t, true)

	drv := int64(30)
	var marked bool
	m := &mockRepo{
		getForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.Delivery, error) {
			return delivery(model.DeliveryDriverAssigned, &drv), nil
		},
		markPickedUpFn: func(ctx context.Context, tx *sql.Tx, id int64) error {
			marked = true
			return nil
		},
	}

	require.NoError(t, New(db, m).ConfirmPickup(context.Background(), 30, 5))
	require.True(t, marked)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmPickup_WrongDriver(t *testing.T) {
	db, mock := newTxDB(t, false)

	drv := int64(30)
	m := &mockRepo{
		getForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.Delivery, error) {
			return delivery(model.DeliveryDriverAssigned, &drv), nil
		},
	}

	err := New(db, m).ConfirmPickup(context.Background(), 31, 5)
	require.Error(t, err)
	require.Equal(t, ErrNotYourRoute, Code(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestComplete_SkipAheadRejected(t *testing.T) {
	db, mock := newTxDB(t, false)

	drv := int64(30)
	m := &mockRepo{
		getForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.Delivery, error) {
			// still waiting on pickup confirmation
			return delivery(model.DeliveryDriverAssigned, &drv), nil
		},
	}

	err := New(db, m).Complete(context.Background(), 30, 5)
	require.Error(t, err)
	require.Equal(t, ErrBadTransition, Code(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestComplete_TerminalStateSticks(t *testing.T) {
	db, mock := newTxDB(t, false)

	drv := int64(30)
	m := &mockRepo{
		getForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.Delivery, error) {
			return delivery(model.DeliveryDelivered, &drv), nil
		},
	}

	err := New(db, m).Complete(context.Background(), 30, 5)
	require.Error(t, err)
	require.Equal(t, ErrBadTransition, Code(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestComplete_HappyPath(t *testing.T) {
	db, mock := newTxDB(t, true)

	drv := int64(30)
	var marked bool
	m := &mockRepo{
		getForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.Delivery, error) {
			return delivery(model.DeliveryPickUpConfirmed, &drv), nil
		},
		markDeliveredFn: func(ctx context.Context, tx *sql.Tx, id int64) error {
			marked = true
			return nil
		},
	}

	require.NoError(t, New(db, m).Complete(context.Background(), 30, 5))
	require.True(t, marked)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransition_Missing(t *testing.T) {
	db, mock := newTxDB(t, false)

	m := &mockRepo{
		getForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.Delivery, error) {
			return nil, sql.ErrNoRows
		},
	}

	err := New(db, m).Assign(context.Background(), 404, 30)
	require.Error(t, err)
	require.Equal(t, ErrNotFound, Code(err))
	require.NoError(t, mock.ExpectationsWereMet())
}
