package forms_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/metwallet/walletd/internal/core/application/forms"
	"github.com/metwallet/walletd/internal/core/application/store"
	"github.com/metwallet/walletd/internal/core/application/testutil"
	"github.com/metwallet/walletd/internal/core/domain"
	"github.com/metwallet/walletd/internal/core/ports"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	delay    = 10 * time.Millisecond
	waitFor  = time.Second
	tick     = 5 * time.Millisecond
	password = "secret"

	twoEther  = "2000000000000000000"
	fiveEther = "5000000000000000000"
)

var ctx = context.Background()

func newStore(t *testing.T, eth, qtum testutil.Balances, events ...store.Event) *store.Store {
	s, err := testutil.NewStore(testutil.NewInitialState(eth, qtum))
	require.NoError(t, err)
	for _, ev := range events {
		require.NoError(t, s.Dispatch(ctx, ev))
	}
	return s
}

func fundedStore(t *testing.T, events ...store.Event) *store.Store {
	return newStore(t,
		testutil.Balances{Coin: testutil.Str(twoEther), Met: testutil.Str(fiveEther)},
		testutil.Balances{Coin: testutil.Str("100000000"), Met: testutil.Str(fiveEther)},
		events...,
	)
}

func ethParams(gas string) ports.TxParams {
	return ports.TxParams{
		Chain:    testutil.EthChain,
		WalletID: testutil.WalletID,
		Password: password,
		From:     testutil.EthAddress,
		GasPrice: "1000000000",
		Gas:      gas,
	}
}

func TestBuyMETForm(t *testing.T) {
	t.Parallel()

	client := &testutil.MockClient{}
	s := fundedStore(t,
		store.CoinPriceUpdated{Price: 250},
		store.AuctionStatusUpdated{
			CurrentPrice:   testutil.Str(twoEther),
			TokenRemaining: testutil.Str("100000000000000000"),
		},
	)
	form := forms.NewBuyMETForm(forms.Deps{Client: client, Store: s, EstimateDelay: delay})
	defer form.Close()

	state := form.State()
	require.Equal(t, forms.StatusIdle, state.Status)
	require.Equal(t, "1", state.Value(forms.FieldGasPrice))
	require.Equal(t, "250000", state.Value(forms.FieldGasLimit))

	client.On("GetAuctionGasLimit", mock.Anything, ports.GasLimitRequest{
		Chain: testutil.EthChain,
		From:  testutil.EthAddress,
		Value: testutil.OneEther,
	}).Return(uint64(120000), nil)

	form.OnInputChange(forms.FieldCoinAmount, " 1 ")
	require.Equal(t, "250", form.State().Value(forms.FieldUSDAmount))
	require.Equal(t, "1", form.State().Value(forms.FieldCoinAmount))
	require.Eventually(t, func() bool {
		state := form.State()
		return state.Value(forms.FieldGasLimit) == "120000" && state.Status == forms.StatusEditing
	}, waitFor, tick)

	estimate, ok := form.Estimate()
	require.True(t, ok)
	require.True(t, estimate.Excedes)
	require.Equal(t, "800000000000000000", estimate.ExcessCoinAmount)

	client.On("BuyMetronome", mock.Anything, ports.BuyRequest{
		TxParams: ethParams("120000"),
		Value:    testutil.OneEther,
	}).Return("0xbuy", nil)

	hash, err := form.Submit(ctx, password)
	require.NoError(t, err)
	require.Equal(t, "0xbuy", hash)
	require.Equal(t, forms.StatusSubmitted, form.State().Status)
	client.AssertExpectations(t)
}

func TestBuyMETFormMaxClick(t *testing.T) {
	t.Parallel()

	client := &testutil.MockClient{}
	client.On("GetAuctionGasLimit", mock.Anything, mock.Anything).Return(uint64(120000), nil)
	form := forms.NewBuyMETForm(forms.Deps{Client: client, Store: fundedStore(t), EstimateDelay: delay})
	defer form.Close()

	form.OnMaxClick()
	require.Equal(t, "2", form.State().Value(forms.FieldCoinAmount))
	require.Empty(t, form.Validate())
	require.Equal(t, forms.StatusValidated, form.State().Status)
}

func TestStaleEstimateIsDiscarded(t *testing.T) {
	t.Parallel()

	client := &testutil.MockClient{}
	started := make(chan struct{})
	release := make(chan struct{})
	finished := make(chan struct{})

	client.On("GetAuctionGasLimit", mock.Anything, ports.GasLimitRequest{
		Chain: testutil.EthChain,
		From:  testutil.EthAddress,
		Value: testutil.OneEther,
	}).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(uint64(100000), nil).Once()
	client.On("GetAuctionGasLimit", mock.Anything, ports.GasLimitRequest{
		Chain: testutil.EthChain,
		From:  testutil.EthAddress,
		Value: twoEther,
	}).Return(uint64(200000), nil).Once()

	form := forms.NewBuyMETForm(forms.Deps{Client: client, Store: fundedStore(t), EstimateDelay: delay})
	defer form.Close()

	form.OnInputChange(forms.FieldCoinAmount, "1")
	<-started
	form.OnInputChange(forms.FieldCoinAmount, "2")
	require.Eventually(t, func() bool {
		return form.State().Value(forms.FieldGasLimit) == "200000"
	}, waitFor, tick)

	go func() {
		close(release)
		time.Sleep(5 * delay)
		close(finished)
	}()
	<-finished

	require.Equal(t, "200000", form.State().Value(forms.FieldGasLimit))
	require.False(t, form.State().GasEstimateError)
	client.AssertExpectations(t)
}

func TestInvalidSubmit(t *testing.T) {
	t.Parallel()

	client := &testutil.MockClient{}
	form := forms.NewBuyMETForm(forms.Deps{Client: client, Store: fundedStore(t), EstimateDelay: delay})
	defer form.Close()

	_, err := form.Submit(ctx, "")
	require.ErrorIs(t, err, forms.ErrInvalidForm)

	state := form.State()
	require.Equal(t, forms.StatusEditing, state.Status)
	require.Equal(t, forms.Errors{
		forms.FieldCoinAmount: "Amount is required",
		forms.FieldPassword:   "Password is required",
	}, state.Errors)
	client.AssertNotCalled(t, "BuyMetronome", mock.Anything, mock.Anything)
}

func TestGasEstimateError(t *testing.T) {
	t.Parallel()

	client := &testutil.MockClient{}
	client.On("GetAuctionGasLimit", mock.Anything, mock.Anything).Return(nil, errors.New("reverted"))
	form := forms.NewBuyMETForm(forms.Deps{Client: client, Store: fundedStore(t), EstimateDelay: delay})
	defer form.Close()

	form.OnInputChange(forms.FieldCoinAmount, "1")
	require.Eventually(t, func() bool {
		return form.State().GasEstimateError
	}, waitFor, tick)
	require.Equal(t, "250000", form.State().Value(forms.FieldGasLimit))

	form.OnInputChange(forms.FieldGasLimit, "300000")
	require.False(t, form.State().GasEstimateError)
	require.Equal(t, "300000", form.State().Value(forms.FieldGasLimit))
}

func TestReset(t *testing.T) {
	t.Parallel()

	client := &testutil.MockClient{}
	form := forms.NewBuyMETForm(forms.Deps{Client: client, Store: fundedStore(t), EstimateDelay: time.Hour})
	defer form.Close()

	form.OnInputChange(forms.FieldGasPrice, "5")
	form.Validate()
	require.NotEmpty(t, form.State().Errors)

	form.Reset()
	state := form.State()
	require.Equal(t, forms.StatusIdle, state.Status)
	require.Empty(t, state.Errors)
	require.Equal(t, "1", state.Value(forms.FieldGasPrice))
	require.Empty(t, state.Value(forms.FieldCoinAmount))
}

func TestConvertCoinToMETForm(t *testing.T) {
	t.Parallel()

	client := &testutil.MockClient{}
	client.On("GetConvertCoinGasLimit", mock.Anything, ports.GasLimitRequest{
		Chain: testutil.EthChain,
		From:  testutil.EthAddress,
		Value: testutil.OneEther,
	}).Return(uint64(300000), nil)
	client.On("GetConvertCoinEstimate", mock.Anything, ports.ConvertEstimateRequest{
		Chain: testutil.EthChain,
		Value: testutil.OneEther,
	}).Return(twoEther, nil)

	form := forms.NewConvertCoinToMETForm(forms.Deps{Client: client, Store: fundedStore(t), EstimateDelay: delay})
	defer form.Close()

	require.True(t, form.UseMinimum())
	require.Equal(t, "21000", form.State().Value(forms.FieldGasLimit))

	form.OnInputChange(forms.FieldCoinAmount, "1")
	require.Eventually(t, func() bool {
		state := form.State()
		return state.Value(forms.FieldEstimate) == twoEther &&
			state.Value(forms.FieldGasLimit) == "300000" &&
			state.Status == forms.StatusEditing
	}, waitFor, tick)
	require.Equal(t, "500000000000000000", form.State().Value(forms.FieldRate))

	client.On("ConvertCoin", mock.Anything, ports.ConvertRequest{
		TxParams:  ethParams("300000"),
		Value:     testutil.OneEther,
		MinReturn: twoEther,
	}).Return("0xconvert", nil).Once()
	hash, err := form.Submit(ctx, password)
	require.NoError(t, err)
	require.Equal(t, "0xconvert", hash)

	form.SetUseMinimum(false)
	client.On("ConvertCoin", mock.Anything, ports.ConvertRequest{
		TxParams: ethParams("300000"),
		Value:    testutil.OneEther,
	}).Return("0xconvert2", nil).Once()
	hash, err = form.Submit(ctx, password)
	require.NoError(t, err)
	require.Equal(t, "0xconvert2", hash)
	client.AssertExpectations(t)
}

func TestConvertEstimateErrors(t *testing.T) {
	t.Parallel()

	const threeEther = "3000000000000000000"

	client := &testutil.MockClient{}
	client.On("GetConvertCoinGasLimit", mock.Anything, mock.Anything).Return(uint64(300000), nil)
	client.On("GetConvertCoinEstimate", mock.Anything, ports.ConvertEstimateRequest{
		Chain: testutil.EthChain,
		Value: threeEther,
	}).Return(nil, errors.New("no liquidity"))

	form := forms.NewConvertCoinToMETForm(forms.Deps{Client: client, Store: fundedStore(t), EstimateDelay: delay})
	defer form.Close()

	form.OnInputChange(forms.FieldCoinAmount, "3")
	require.Eventually(t, func() bool {
		return form.State().EstimateError == "no liquidity"
	}, waitFor, tick)

	errs := form.Validate()
	require.Equal(t, "Insufficient funds", errs[forms.FieldCoinAmount])
	require.Equal(t, "No estimated return. Try again.", errs[forms.FieldUseMinimum])

	form.OnInputChange(forms.FieldCoinAmount, "0")
	require.Eventually(t, func() bool {
		state := form.State()
		return state.EstimateError == "" && state.Status == forms.StatusEditing
	}, waitFor, tick)
	require.Empty(t, form.State().Value(forms.FieldEstimate))
	client.AssertNotCalled(t, "GetConvertCoinEstimate", mock.Anything, ports.ConvertEstimateRequest{
		Chain: testutil.EthChain,
		Value: "0",
	})
}

func TestConvertMETToCoinForm(t *testing.T) {
	t.Parallel()

	client := &testutil.MockClient{}
	client.On("GetConvertMetGasLimit", mock.Anything, ports.GasLimitRequest{
		Chain: testutil.EthChain,
		From:  testutil.EthAddress,
		Value: twoEther,
	}).Return(uint64(310000), nil)
	client.On("GetConvertMetEstimate", mock.Anything, ports.ConvertEstimateRequest{
		Chain: testutil.EthChain,
		Value: twoEther,
	}).Return(testutil.OneEther, nil)
	client.On("GetConvertMetGasLimit", mock.Anything, mock.Anything).Return(uint64(310000), nil)
	client.On("GetConvertMetEstimate", mock.Anything, mock.Anything).Return(twoEther, nil)

	form := forms.NewConvertMETToCoinForm(forms.Deps{Client: client, Store: fundedStore(t), EstimateDelay: delay})
	defer form.Close()

	form.OnInputChange(forms.FieldMetAmount, "2")
	require.Empty(t, form.State().Value(forms.FieldUSDAmount))
	require.Eventually(t, func() bool {
		state := form.State()
		return state.Value(forms.FieldEstimate) == testutil.OneEther &&
			state.Value(forms.FieldGasLimit) == "310000"
	}, waitFor, tick)
	require.Equal(t, "500000000000000000", form.State().Value(forms.FieldRate))

	form.OnMaxClick()
	require.Equal(t, "5", form.State().Value(forms.FieldMetAmount))
}

func TestSendCoinFormWithoutGas(t *testing.T) {
	t.Parallel()

	qtum := testutil.NewConfig().Chains[testutil.QtumChain]
	client := &testutil.MockClient{}
	client.On("IsAddress", qtum, testutil.OtherAddress).Return(true)
	client.On("IsAddress", qtum, "bad").Return(false)

	s := fundedStore(t, store.ActiveChainChanged{Chain: testutil.QtumChain})
	form := forms.NewSendCoinForm(forms.Deps{Client: client, Store: s, EstimateDelay: delay})
	defer form.Close()

	form.OnInputChange(forms.FieldToAddress, "bad")
	form.OnInputChange(forms.FieldCoinAmount, "0.5")
	errs := form.Validate()
	require.Equal(t, forms.Errors{forms.FieldToAddress: "Invalid address"}, errs)

	form.OnInputChange(forms.FieldToAddress, testutil.OtherAddress)
	client.On("SendCoin", mock.Anything, ports.SendRequest{
		TxParams: ports.TxParams{
			Chain:    testutil.QtumChain,
			WalletID: testutil.WalletID,
			Password: password,
			From:     testutil.QtumAddress,
		},
		To:    testutil.OtherAddress,
		Value: "50000000",
	}).Return("0xsend", nil)

	hash, err := form.Submit(ctx, password)
	require.NoError(t, err)
	require.Equal(t, "0xsend", hash)
	client.AssertNotCalled(t, "GetGasLimit", mock.Anything, mock.Anything)
	client.AssertExpectations(t)
}

func TestSendCoinFormEstimatesGas(t *testing.T) {
	t.Parallel()

	eth := testutil.NewConfig().Chains[testutil.EthChain]
	client := &testutil.MockClient{}
	client.On("IsAddress", eth, testutil.OtherAddress).Return(true)
	client.On("GetGasLimit", mock.Anything, ports.GasLimitRequest{
		Chain: testutil.EthChain,
		From:  testutil.EthAddress,
		To:    testutil.OtherAddress,
		Value: testutil.OneEther,
	}).Return(uint64(21000), nil)

	form := forms.NewSendCoinForm(forms.Deps{Client: client, Store: fundedStore(t), EstimateDelay: delay})
	defer form.Close()

	form.OnInputChange(forms.FieldGasLimit, "1")
	form.OnInputChange(forms.FieldToAddress, testutil.OtherAddress)
	form.OnInputChange(forms.FieldCoinAmount, "1")
	require.Eventually(t, func() bool {
		return form.State().Value(forms.FieldGasLimit) == "21000"
	}, waitFor, tick)
}

func TestClosedFormStopsEstimating(t *testing.T) {
	t.Parallel()

	eth := testutil.NewConfig().Chains[testutil.EthChain]
	client := &testutil.MockClient{}
	client.On("IsAddress", eth, testutil.OtherAddress).Return(true)

	form := forms.NewSendCoinForm(forms.Deps{Client: client, Store: fundedStore(t), EstimateDelay: time.Minute})

	form.OnInputChange(forms.FieldToAddress, testutil.OtherAddress)
	form.OnInputChange(forms.FieldCoinAmount, "1")
	require.Equal(t, forms.StatusEstimating, form.State().Status)

	form.Close()
	require.NotEqual(t, forms.StatusEstimating, form.State().Status)

	form.OnInputChange(forms.FieldCoinAmount, "0.5")
	require.NotEqual(t, forms.StatusEstimating, form.State().Status)
	require.Equal(t, "0.5", form.State().Value(forms.FieldCoinAmount))
	client.AssertNotCalled(t, "GetGasLimit", mock.Anything, mock.Anything)
}

func TestSendMETForm(t *testing.T) {
	t.Parallel()

	eth := testutil.NewConfig().Chains[testutil.EthChain]
	client := &testutil.MockClient{}
	client.On("IsAddress", eth, testutil.OtherAddress).Return(true)
	client.On("GetTokensGasLimit", mock.Anything, ports.GasLimitRequest{
		Chain: testutil.EthChain,
		From:  testutil.EthAddress,
		To:    testutil.OtherAddress,
		Value: testutil.OneEther,
		Token: testutil.EthMetToken,
	}).Return(uint64(60000), nil)
	client.On("GetTokensGasLimit", mock.Anything, mock.Anything).Return(uint64(60000), nil)

	form := forms.NewSendMETForm(forms.Deps{Client: client, Store: fundedStore(t), EstimateDelay: delay})
	defer form.Close()

	form.OnInputChange(forms.FieldToAddress, testutil.OtherAddress)
	form.OnInputChange(forms.FieldMetAmount, "1")
	require.Eventually(t, func() bool {
		return form.State().Value(forms.FieldGasLimit) == "60000"
	}, waitFor, tick)

	form.OnInputChange(forms.FieldMetAmount, "6")
	require.Equal(t, "Insufficient funds", form.Validate()[forms.FieldMetAmount])

	form.OnInputChange(forms.FieldMetAmount, "1")
	require.Eventually(t, func() bool {
		return form.State().Status == forms.StatusEditing
	}, waitFor, tick)
	client.On("SendMet", mock.Anything, ports.SendRequest{
		TxParams: ethParams("60000"),
		To:       testutil.OtherAddress,
		Value:    testutil.OneEther,
	}).Return("0xsendmet", nil)

	hash, err := form.Submit(ctx, password)
	require.NoError(t, err)
	require.Equal(t, "0xsendmet", hash)
}

func TestPortForm(t *testing.T) {
	t.Parallel()

	client := &testutil.MockClient{}
	client.On("GetPortGasLimit", mock.Anything, ports.GasLimitRequest{
		Chain:            testutil.EthChain,
		From:             testutil.EthAddress,
		Value:            testutil.OneEther,
		DestinationChain: testutil.QtumSymbol,
	}).Return(uint64(150000), nil)
	client.On("GetPortFees", mock.Anything, ports.PortFeesRequest{
		Chain:            testutil.EthChain,
		From:             testutil.EthAddress,
		Value:            testutil.OneEther,
		DestinationChain: testutil.QtumSymbol,
	}).Return("1000", nil)

	form := forms.NewPortForm(forms.Deps{Client: client, Store: fundedStore(t), EstimateDelay: delay})
	defer form.Close()

	require.Equal(t, testutil.QtumChain, form.State().Value(forms.FieldDestination))

	form.OnInputChange(forms.FieldMetAmount, "1")
	require.Eventually(t, func() bool {
		state := form.State()
		return state.Value(forms.FieldGasLimit) == "150000" &&
			state.Value(forms.FieldFee) == "1000" &&
			state.Status == forms.StatusEditing
	}, waitFor, tick)

	client.On("PortMetronome", mock.Anything, ports.PortRequest{
		TxParams:              ethParams("150000"),
		Value:                 testutil.OneEther,
		Fee:                   "1000",
		DestinationChain:      testutil.QtumSymbol,
		DestinationMetAddress: testutil.QtumMetToken,
	}).Return("0xport", nil)

	hash, err := form.Submit(ctx, password)
	require.NoError(t, err)
	require.Equal(t, "0xport", hash)
	client.AssertExpectations(t)
}

func TestPortFormDestination(t *testing.T) {
	t.Parallel()

	client := &testutil.MockClient{}
	form := forms.NewPortForm(forms.Deps{Client: client, Store: fundedStore(t), EstimateDelay: time.Hour})
	defer form.Close()

	tests := []struct {
		destination string
		expected    string
	}{
		{testutil.QtumChain, ""},
		{testutil.EthChain, "Invalid destination chain"},
		{"", "Destination chain is required"},
	}
	for _, tt := range tests {
		form.OnInputChange(forms.FieldDestination, tt.destination)
		require.Equal(t, tt.expected, form.Validate()[forms.FieldDestination], tt.destination)
	}
}

func TestRetryImportForm(t *testing.T) {
	t.Parallel()

	data := domain.PortOperation{
		OriginChain: testutil.QtumSymbol,
		From:        testutil.QtumAddress,
		PortData: domain.PortData{
			CurrentBurnHash:  "0xburn",
			DestinationChain: testutil.EthSymbol,
			To:               testutil.EthAddress,
			Value:            testutil.OneEther,
			Fee:              "1000",
			BurnSequence:     "3",
		},
	}

	client := &testutil.MockClient{}
	client.On("GetImportGasLimit", mock.Anything, ports.ImportGasLimitRequest{
		Chain:           testutil.EthChain,
		From:            testutil.EthAddress,
		OriginChain:     testutil.QtumSymbol,
		CurrentBurnHash: "0xburn",
		Value:           testutil.OneEther,
		Fee:             "1000",
	}).Return(uint64(400000), nil)
	client.On("RetryImport", mock.Anything, ports.RetryImportRequest{
		TxParams:              ethParams("400000"),
		OriginChain:           testutil.QtumSymbol,
		CurrentBurnHash:       "0xburn",
		BurnSequence:          "3",
		DestinationChain:      testutil.EthSymbol,
		DestinationMetAddress: testutil.EthMetToken,
		To:                    testutil.EthAddress,
		Value:                 testutil.OneEther,
		Fee:                   "1000",
	}).Return("0ximport", nil)

	form := forms.NewRetryImportForm(forms.Deps{Client: client, Store: fundedStore(t), EstimateDelay: delay}, data)
	defer form.Close()

	require.Equal(t, data, form.ImportData())
	form.EstimateGas()
	require.Eventually(t, func() bool {
		return form.State().Value(forms.FieldGasLimit) == "400000"
	}, waitFor, tick)

	hash, err := form.Submit(ctx, password)
	require.NoError(t, err)
	require.Equal(t, "0ximport", hash)
	client.AssertExpectations(t)
}
