package forms_test

import (
	"testing"

	"github.com/metwallet/walletd/internal/core/application/forms"
	"github.com/metwallet/walletd/internal/core/application/testutil"
	"github.com/metwallet/walletd/internal/core/ports"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestManager(t *testing.T) {
	t.Parallel()

	client := &testutil.MockClient{}
	client.On("IsAddress", mock.Anything, mock.Anything).Return(true)
	client.On("GetGasLimit", mock.Anything, mock.Anything).Return(uint64(21000), nil)

	m := forms.NewManager(forms.Deps{Client: client, Store: fundedStore(t), EstimateDelay: delay})
	defer m.CloseAll()

	id, err := m.Open(forms.KindSendCoin, "")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	f, err := m.Get(id)
	require.NoError(t, err)
	_, ok := f.(*forms.SendCoinForm)
	require.True(t, ok)

	f.OnInputChange(forms.FieldToAddress, testutil.OtherAddress)
	f.OnInputChange(forms.FieldCoinAmount, "1")
	require.Equal(t, "1", f.State().Value(forms.FieldCoinAmount))

	other, err := m.Open(forms.KindSendCoin, "")
	require.NoError(t, err)
	require.NotEqual(t, id, other)

	require.NoError(t, m.Close(id))
	_, err = m.Get(id)
	require.ErrorIs(t, err, forms.ErrFormNotFound)
	require.ErrorIs(t, m.Close(id), forms.ErrFormNotFound)

	_, err = m.Get(other)
	require.NoError(t, err)
}

func TestManagerOpenErrors(t *testing.T) {
	t.Parallel()

	client := &testutil.MockClient{}

	tests := []struct {
		name        string
		balances    testutil.Balances
		kind        forms.Kind
		burnHash    string
		expectedErr error
	}{
		{
			name:        "unknown kind",
			kind:        forms.Kind("swap"),
			expectedErr: forms.ErrUnknownKind,
		},
		{
			name:        "convert without coin",
			balances:    testutil.Balances{Met: testutil.Str(fiveEther)},
			kind:        forms.KindConvertCoin,
			expectedErr: forms.ErrFeatureDisabled,
		},
		{
			name:        "send met without met",
			balances:    testutil.Balances{Coin: testutil.Str(twoEther)},
			kind:        forms.KindSendMet,
			expectedErr: forms.ErrFeatureDisabled,
		},
		{
			name:        "retry unknown import",
			balances:    testutil.Balances{Coin: testutil.Str(twoEther)},
			kind:        forms.KindRetryImport,
			burnHash:    "0xunknown",
			expectedErr: forms.ErrImportNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newStore(t, tt.balances, testutil.Balances{})
			m := forms.NewManager(forms.Deps{Client: client, Store: s, EstimateDelay: delay})
			defer m.CloseAll()

			_, err := m.Open(tt.kind, tt.burnHash)
			require.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestManagerRetryImport(t *testing.T) {
	t.Parallel()

	export := testutil.ExportTx("0xe1", "0xburn1", testutil.EthSymbol, testutil.EthAddress, "100")
	s := newStore(t,
		testutil.Balances{Coin: testutil.Str(twoEther)}, testutil.Balances{},
		testutil.AddTransactions(testutil.QtumChain, testutil.QtumAddress, export),
	)

	client := &testutil.MockClient{}
	client.On("GetImportGasLimit", mock.Anything, mock.MatchedBy(func(req ports.ImportGasLimitRequest) bool {
		return req.CurrentBurnHash == "0xburn1"
	})).Return(uint64(400000), nil)

	m := forms.NewManager(forms.Deps{Client: client, Store: s, EstimateDelay: delay})
	defer m.CloseAll()

	id, err := m.Open(forms.KindRetryImport, "0xburn1")
	require.NoError(t, err)

	f, err := m.Get(id)
	require.NoError(t, err)
	retry, ok := f.(*forms.RetryImportForm)
	require.True(t, ok)
	require.Equal(t, "0xburn1", retry.ImportData().CurrentBurnHash)

	require.Eventually(t, func() bool {
		return f.State().Value(forms.FieldGasLimit) == "400000"
	}, waitFor, tick)
}
