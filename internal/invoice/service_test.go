package invoice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/facturas/internal/invoice"
)

func draft(number string, day int, gross int64) invoice.Draft {
	return invoice.Draft{
		Date:          time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC),
		Concept:       "Cejas",
		Gross:         gross,
		Net:           gross * 100 / 121,
		Number:        number,
		PaymentMethod: invoice.PaymentBizum,
		Client:        invoice.WalkInClient,
	}
}

func TestService_List(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(m *invoice.MockRepository)
		wantLen   int
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().
					ListInvoices(gomock.Any(), "acme").
					Return([]*invoice.Invoice{{ID: uuid.New()}, {ID: uuid.New()}}, nil)
			},
			wantLen: 2,
		},
		{
			name: "StoreError",
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().
					ListInvoices(gomock.Any(), "acme").
					Return(nil, errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := invoice.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := invoice.NewService(repo)
			got, err := svc.List(context.Background(), "acme")

			if tt.wantErr {
				var perr *invoice.PersistenceError
				require.ErrorAs(t, err, &perr)
				assert.Contains(t, perr.Error(), "connection refused")

				return
			}

			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestService_Commit_AllNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := invoice.NewMockRepository(ctrl)
	itx := invoice.NewMockImportTx(ctrl)
	svc := invoice.NewService(repo)

	drafts := []invoice.Draft{draft("FAC-001", 1, 1000), draft("FAC-002", 2, 2000)}

	repo.EXPECT().BeginImport(gomock.Any(), "acme").Return(itx, nil)
	itx.EXPECT().ExistingNumbers(gomock.Any()).Return(nil, nil)
	itx.EXPECT().CreateInvoices(gomock.Any(), gomock.Len(2)).Return(nil)
	itx.EXPECT().Commit(gomock.Any()).Return(nil)
	itx.EXPECT().Rollback(gomock.Any()).Return(nil)

	result, err := svc.Commit(context.Background(), "acme", drafts)
	require.NoError(t, err)
	require.Len(t, result.Inserted, 2)
	assert.Empty(t, result.Skipped)
	assert.False(t, result.NoneNew())

	assert.Equal(t, "acme", result.Inserted[0].Tenant)
	assert.Equal(t, "FAC-001", result.Inserted[0].Number)
	assert.NotEqual(t, uuid.Nil, result.Inserted[0].ID)
}

func TestService_Commit_SkipsExisting(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := invoice.NewMockRepository(ctrl)
	itx := invoice.NewMockImportTx(ctrl)
	svc := invoice.NewService(repo)

	drafts := []invoice.Draft{draft("FAC-001", 1, 1000), draft("FAC-002", 2, 2000)}

	repo.EXPECT().BeginImport(gomock.Any(), "acme").Return(itx, nil)
	itx.EXPECT().ExistingNumbers(gomock.Any()).Return([]string{"FAC-001"}, nil)
	itx.EXPECT().
		CreateInvoices(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, invs []*invoice.Invoice) error {
			require.Len(t, invs, 1)
			assert.Equal(t, "FAC-002", invs[0].Number)

			return nil
		})
	itx.EXPECT().Commit(gomock.Any()).Return(nil)
	itx.EXPECT().Rollback(gomock.Any()).Return(nil)

	result, err := svc.Commit(context.Background(), "acme", drafts)
	require.NoError(t, err)
	assert.Len(t, result.Inserted, 1)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "FAC-001", result.Skipped[0].Number)
}

func TestService_Commit_NoneNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := invoice.NewMockRepository(ctrl)
	itx := invoice.NewMockImportTx(ctrl)
	svc := invoice.NewService(repo)

	drafts := []invoice.Draft{draft("FAC-001", 1, 1000), draft("FAC-002", 2, 2000)}

	repo.EXPECT().BeginImport(gomock.Any(), "acme").Return(itx, nil)
	itx.EXPECT().ExistingNumbers(gomock.Any()).Return([]string{"FAC-001", "FAC-002"}, nil)
	itx.EXPECT().Rollback(gomock.Any()).Return(nil)

	result, err := svc.Commit(context.Background(), "acme", drafts)
	require.NoError(t, err)
	assert.True(t, result.NoneNew())
	assert.Len(t, result.Skipped, 2)
}

func TestService_Commit_DuplicateWithinBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := invoice.NewMockRepository(ctrl)
	itx := invoice.NewMockImportTx(ctrl)
	svc := invoice.NewService(repo)

	drafts := []invoice.Draft{draft("FAC-001", 1, 1000), draft("FAC-001", 2, 2000)}

	repo.EXPECT().BeginImport(gomock.Any(), "acme").Return(itx, nil)
	itx.EXPECT().ExistingNumbers(gomock.Any()).Return(nil, nil)
	itx.EXPECT().CreateInvoices(gomock.Any(), gomock.Len(1)).Return(nil)
	itx.EXPECT().Commit(gomock.Any()).Return(nil)
	itx.EXPECT().Rollback(gomock.Any()).Return(nil)

	result, err := svc.Commit(context.Background(), "acme", drafts)
	require.NoError(t, err)
	assert.Len(t, result.Inserted, 1)
	assert.Len(t, result.Skipped, 1)
}

func TestService_Commit_InsertFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := invoice.NewMockRepository(ctrl)
	itx := invoice.NewMockImportTx(ctrl)
	svc := invoice.NewService(repo)

	repo.EXPECT().BeginImport(gomock.Any(), "acme").Return(itx, nil)
	itx.EXPECT().ExistingNumbers(gomock.Any()).Return(nil, nil)
	itx.EXPECT().CreateInvoices(gomock.Any(), gomock.Any()).Return(errors.New("unique violation"))
	itx.EXPECT().Rollback(gomock.Any()).Return(nil)

	_, err := svc.Commit(context.Background(), "acme", []invoice.Draft{draft("FAC-001", 1, 1000)})

	var perr *invoice.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "inserting invoices", perr.Op)
}

func TestService_Commit_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := invoice.NewService(invoice.NewMockRepository(ctrl))

	result, err := svc.Commit(context.Background(), "acme", nil)
	require.NoError(t, err)
	assert.True(t, result.NoneNew())
	assert.Empty(t, result.Skipped)
}

func TestService_DeletePeriod(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := invoice.NewMockRepository(ctrl)
	svc := invoice.NewService(repo)

	from := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	repo.EXPECT().DeleteBetween(gomock.Any(), "acme", from, to).Return(int64(4), nil)

	n, err := svc.DeletePeriod(context.Background(), "acme", time.December, 2024)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	_, err = svc.DeletePeriod(context.Background(), "acme", time.Month(13), 2024)
	assert.ErrorIs(t, err, invoice.ErrInvalidPeriod)
}

func TestService_Get_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := invoice.NewMockRepository(ctrl)
	svc := invoice.NewService(repo)

	repo.EXPECT().GetInvoice(gomock.Any(), "acme", "FAC-404").Return(nil, invoice.ErrNotFound)

	_, err := svc.Get(context.Background(), "acme", "FAC-404")
	assert.ErrorIs(t, err, invoice.ErrNotFound)
}

func TestService_Update_KeepsNumber(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := invoice.NewMockRepository(ctrl)
	svc := invoice.NewService(repo)

	d := draft("", 5, 4000)
	d.Net = 1

	repo.EXPECT().
		ReplaceInvoice(gomock.Any(), "FAC-007", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, inv *invoice.Invoice) error {
			assert.Equal(t, "FAC-007", inv.Number)
			assert.Equal(t, int64(1), inv.Net)

			return nil
		})

	inv, err := svc.Update(context.Background(), "acme", "FAC-007", d)
	require.NoError(t, err)
	assert.Equal(t, "acme", inv.Tenant)
}
