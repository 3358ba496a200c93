package concept_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/facturas/internal/concept"
	"github.com/MrJamesThe3rd/facturas/internal/invoice"
)

func TestTable_Lookup(t *testing.T) {
	type testCase struct {
		name   string
		amount string
		want   string
	}

	tests := []testCase{
		{name: "Ten", amount: "10", want: "Depilación de cejas"},
		{name: "TwentyWithDecimals", amount: "20.00", want: "Diseño de cejas"},
		{name: "Forty", amount: "40", want: "Tratamiento facial"},
		{name: "Sixty", amount: "60.0", want: "Pack de belleza facial"},
		{name: "TwoTwenty", amount: "220", want: "Tratamiento combinado"},
		{name: "SixHundred", amount: "600", want: "Alquiler local"},
		{name: "Unmapped", amount: "15", want: concept.FallbackLabel},
		{name: "FractionalUnmapped", amount: "10.50", want: concept.FallbackLabel},
	}

	table := concept.DefaultTable()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Lookup(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestDefaultTable_IsCopy(t *testing.T) {
	a := concept.DefaultTable()
	a["10"] = "changed"

	assert.Equal(t, "Depilación de cejas", concept.DefaultTable()["10"])
}

func TestService_Table_MergesOverrides(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := concept.NewMockRepository(ctrl)
	repo.EXPECT().ListMappings(gomock.Any(), "acme").Return(map[string]string{
		"10": "Cejas express",
		"35": "Lifting de pestañas",
	}, nil)

	svc := concept.NewService(repo)

	table, err := svc.Table(context.Background(), "acme")
	require.NoError(t, err)

	assert.Equal(t, "Cejas express", table.Lookup(decimal.NewFromInt(10)))
	assert.Equal(t, "Lifting de pestañas", table.Lookup(decimal.NewFromInt(35)))
	assert.Equal(t, "Tratamiento facial", table.Lookup(decimal.NewFromInt(40)))
}

func TestService_Table_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := concept.NewMockRepository(ctrl)
	repo.EXPECT().ListMappings(gomock.Any(), "acme").Return(nil, errors.New("connection reset"))

	_, err := concept.NewService(repo).Table(context.Background(), "acme")

	var perr *invoice.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "loading concept mappings", perr.Op)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestService_Set(t *testing.T) {
	type args struct {
		amount string
		label  string
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *concept.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "NormalizesKey",
			args: args{amount: "40,00", label: "  Limpieza facial "},
			setupMock: func(m *concept.MockRepository) {
				m.EXPECT().UpsertMapping(gomock.Any(), "acme", "40", "Limpieza facial").Return(nil)
			},
		},
		{
			name:      "InvalidAmount",
			args:      args{amount: "abc", label: "x"},
			setupMock: func(m *concept.MockRepository) {},
			wantErr:   concept.ErrInvalidAmount,
		},
		{
			name:      "EmptyLabel",
			args:      args{amount: "10", label: "   "},
			setupMock: func(m *concept.MockRepository) {},
			wantErr:   concept.ErrEmptyLabel,
		},
		{
			name: "StoreError",
			args: args{amount: "10", label: "Cejas"},
			setupMock: func(m *concept.MockRepository) {
				m.EXPECT().UpsertMapping(gomock.Any(), "acme", "10", "Cejas").Return(errors.New("read only"))
			},
			wantErr: &invoice.PersistenceError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := concept.NewMockRepository(ctrl)
			tt.setupMock(repo)

			err := concept.NewService(repo).Set(context.Background(), "acme", tt.args.amount, tt.args.label)
			var perr *invoice.PersistenceError
			if errors.As(tt.wantErr, &perr) {
				require.ErrorAs(t, err, &perr)
				assert.Equal(t, "saving concept mapping", perr.Op)

				return
			}

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := concept.NewMockRepository(ctrl)
	repo.EXPECT().DeleteMapping(gomock.Any(), "acme", "220").Return(nil)

	require.NoError(t, concept.NewService(repo).Delete(context.Background(), "acme", "220.0"))
}

func TestService_Delete_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := concept.NewMockRepository(ctrl)
	repo.EXPECT().DeleteMapping(gomock.Any(), "acme", "220").Return(errors.New("connection reset"))

	err := concept.NewService(repo).Delete(context.Background(), "acme", "220")

	var perr *invoice.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "deleting concept mapping", perr.Op)
}
