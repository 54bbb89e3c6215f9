// service/account/account_service_test.go
package accountsvc

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	accountrepo "github.com/Siyemukel/Digital-online-bookstore/repository/account"
	"github.com/Siyemukel/Digital-online-bookstore/util/hash"
)

type mockRepo struct {
	accountrepo.Repo
	createUserFn   func(ctx context.Context, tx *sql.Tx, email, passwordHash, role string) (int64, error)
	createStaffFn  func(ctx context.Context, tx *sql.Tx, userID int64, firstName, lastName, phone string) error
	createDriverFn func(ctx context.Context, tx *sql.Tx, userID int64, firstName, lastName, phone string) error
	deleteStaffFn  func(ctx context.Context, tx *sql.Tx, userID int64) error
}

func (m *mockRepo) CreateUser(ctx context.Context, tx *sql.Tx, email, passwordHash, role string) (int64, error) {
	return m.createUserFn(ctx, tx, email, passwordHash, role)
}
func (m *mockRepo) CreateStaff(ctx context.Context, tx *sql.Tx, userID int64, firstName, lastName, phone string) error {
	return m.createStaffFn(ctx, tx, userID, firstName, lastName, phone)
}
func (m *mockRepo) CreateDriver(ctx context.Context, tx *sql.Tx, userID int64, firstName, lastName, phone string) error {
	return m.createDriverFn(ctx, tx, userID, firstName, lastName, phone)
}
func (m *mockRepo) DeleteStaff(ctx context.Context, tx *sql.Tx, userID int64) error {
	return m.deleteStaffFn(ctx, tx, userID)
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

func TestCreate_Staff(t *testing.T) {
	db, mock := newTxDB(t, true)

	m := &mockRepo{
		createUserFn: func(ctx context.Context, tx *sql.Tx, email, passwordHash, role string) (int64, error) {
			require.Equal(t, "staff", role)
			require.True(t, hash.Check(passwordHash, "supersecret"))
			return 42, nil
		},
		createStaffFn: func(ctx context.Context, tx *sql.Tx, userID int64, firstName, lastName, phone string) error {
			require.Equal(t, int64(42), userID)
			return nil
		},
		createDriverFn: func(ctx context.Context, tx *sql.Tx, userID int64, firstName, lastName, phone string) error {
			t.Fatal("staff creation must not touch drivers")
			return nil
		},
	}

	id, err := New(db, m).Create(context.Background(), "staff", CreateReq{
		Email: "clerk@store.co", FirstName: "N", LastName: "M", Phone: "0", Password: "supersecret",
	})
	require.NoError(t, err)
	require.Equal(t, int64(42), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_RejectsOtherRoles(t *testing.T) {
	svc := New(nil, &mockRepo{})
	_, err := svc.Create(context.Background(), "admin", CreateReq{Password: "x"})
	require.ErrorIs(t, err, ErrBadRole)

	_, err = svc.Create(context.Background(), "student", CreateReq{Password: "x"})
	require.ErrorIs(t, err, ErrBadRole)
}

func TestDelete_Missing(t *testing.T) {
	db, mock := newTxDB(t, false)

	m := &mockRepo{deleteStaffFn: func(ctx context.Context, tx *sql.Tx, userID int64) error {
		return sql.ErrNoRows
	}}

	err := New(db, m).Delete(context.Background(), "staff", 404)
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_Success(t *testing.T) {
	db, mock := newTxDB(t, true)

	var deleted int64
	m := &mockRepo{deleteStaffFn: func(ctx context.Context, tx *sql.Tx, userID int64) error {
		deleted = userID
		return nil
	}}

	require.NoError(t, New(db, m).Delete(context.Background(), "staff", 42))
	require.Equal(t, int64(42), deleted)
	require.NoError(t, mock.ExpectationsWereMet())
}
