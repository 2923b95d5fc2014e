package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/storyverse/rewards-api/internal/model"
	"github.com/storyverse/rewards-api/pkg/database"
)

// mockTx is a mock implementation of pgx.Tx for testing transactions.
type mockTx struct {
	commitFn   func(ctx context.Context) error
	rollbackFn func(ctx context.Context) error
	committed  bool
}

func (m *mockTx) Begin(ctx context.Context) (pgx.Tx, error) {
	return nil, errors.New("nested transactions not supported")
}

func (m *mockTx) Commit(ctx context.Context) error {
	if m.commitFn != nil {
		return m.commitFn(ctx)
	}
	m.committed = true
	return nil
}

func (m *mockTx) Rollback(ctx context.Context) error {
	if m.rollbackFn != nil {
		return m.rollbackFn(ctx)
	}
	if m.committed {
		return pgx.ErrTxClosed
	}
	return nil
}

func (m *mockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}

func (m *mockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	return nil
}

func (m *mockTx) LargeObjects() pgx.LargeObjects {
	return pgx.LargeObjects{}
}

func (m *mockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}

func (m *mockTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (m *mockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (m *mockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

func (m *mockTx) Conn() *pgx.Conn {
	return nil
}

// mockTxBeginner is a mock implementation of TxBeginner.
type mockTxBeginner struct {
	beginFn func(ctx context.Context) (pgx.Tx, error)
}

func (m *mockTxBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	if m.beginFn != nil {
		return m.beginFn(ctx)
	}
	return &mockTx{}, nil
}

func beginnerFor(tx *mockTx) *mockTxBeginner {
	return &mockTxBeginner{
		beginFn: func(ctx context.Context) (pgx.Tx, error) {
			return tx, nil
		},
	}
}

// mockUserRepository is a mock implementation of UserRepositoryInterface.
type mockUserRepository struct {
	getByIDFn        func(ctx context.Context, id uuid.UUID) (*model.User, error)
	getForUpdateFn   func(ctx context.Context, tx database.TxQuerier, id uuid.UUID) (*model.User, error)
	updateProgressFn func(ctx context.Context, tx database.TxQuerier, user *model.User) error
	saved            *model.User
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepository) GetForUpdate(ctx context.Context, tx database.TxQuerier, id uuid.UUID) (*model.User, error) {
	if m.getForUpdateFn != nil {
		return m.getForUpdateFn(ctx, tx, id)
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) UpdateProgress(ctx context.Context, tx database.TxQuerier, user *model.User) error {
	copied := *user
	m.saved = &copied
	if m.updateProgressFn != nil {
		return m.updateProgressFn(ctx, tx, user)
	}
	return nil
}

// userRepoWith returns a repository whose locked read yields a copy of u.
func userRepoWith(u model.User) *mockUserRepository {
	return &mockUserRepository{
		getForUpdateFn: func(ctx context.Context, tx database.TxQuerier, id uuid.UUID) (*model.User, error) {
			copied := u
			copied.ID = id
			return &copied, nil
		},
	}
}

// mockGiftCodeRepository is a mock implementation of GiftCodeRepositoryInterface.
type mockGiftCodeRepository struct {
	getByCodeForUpdateFn func(ctx context.Context, tx database.TxQuerier, code string) (*model.GiftCode, error)
	incrementUsedCountFn func(ctx context.Context, tx database.TxQuerier, id int64) error
	increments           int
}

func (m *mockGiftCodeRepository) GetByCodeForUpdate(ctx context.Context, tx database.TxQuerier, code string) (*model.GiftCode, error) {
	if m.getByCodeForUpdateFn != nil {
		return m.getByCodeForUpdateFn(ctx, tx, code)
	}
	return nil, ErrGiftCodeNotFound
}

func (m *mockGiftCodeRepository) IncrementUsedCount(ctx context.Context, tx database.TxQuerier, id int64) error {
	m.increments++
	if m.incrementUsedCountFn != nil {
		return m.incrementUsedCountFn(ctx, tx, id)
	}
	return nil
}

// mockGiftCodeUsageRepository is a mock implementation of GiftCodeUsageRepositoryInterface.
type mockGiftCodeUsageRepository struct {
	existsFn func(ctx context.Context, tx database.TxQuerier, userID uuid.UUID, giftCodeID int64) (bool, error)
	insertFn func(ctx context.Context, tx database.TxQuerier, userID uuid.UUID, giftCodeID int64) error
	inserts  int
}

func (m *mockGiftCodeUsageRepository) Exists(ctx context.Context, tx database.TxQuerier, userID uuid.UUID, giftCodeID int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, tx, userID, giftCodeID)
	}
	return false, nil
}

func (m *mockGiftCodeUsageRepository) Insert(ctx context.Context, tx database.TxQuerier, userID uuid.UUID, giftCodeID int64) error {
	m.inserts++
	if m.insertFn != nil {
		return m.insertFn(ctx, tx, userID, giftCodeID)
	}
	return nil
}

// mockVoucherRepository implements both VoucherRepositoryInterface and VoucherGranter.
type mockVoucherRepository struct {
	getByCodeFn   func(ctx context.Context, code string) (*model.Voucher, error)
	hasUserUsedFn func(ctx context.Context, voucherID int64, userID uuid.UUID) (bool, error)
	grantFn       func(ctx context.Context, tx database.TxQuerier, userID uuid.UUID, voucherID int64) error
	granted       []int64
}

func (m *mockVoucherRepository) GetByCode(ctx context.Context, code string) (*model.Voucher, error) {
	if m.getByCodeFn != nil {
		return m.getByCodeFn(ctx, code)
	}
	return nil, nil
}

func (m *mockVoucherRepository) HasUserUsed(ctx context.Context, voucherID int64, userID uuid.UUID) (bool, error) {
	if m.hasUserUsedFn != nil {
		return m.hasUserUsedFn(ctx, voucherID, userID)
	}
	return false, nil
}

func (m *mockVoucherRepository) GrantToUser(ctx context.Context, tx database.TxQuerier, userID uuid.UUID, voucherID int64) error {
	m.granted = append(m.granted, voucherID)
	if m.grantFn != nil {
		return m.grantFn(ctx, tx, userID, voucherID)
	}
	return nil
}

func floatPtr(f float64) *float64 {
	return &f
}

func int64Ptr(i int64) *int64 {
	return &i
}

func timePtr(t time.Time) *time.Time {
	return &t
}
