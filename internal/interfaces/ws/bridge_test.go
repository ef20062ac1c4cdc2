package ws_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/metwallet/walletd/internal/core/application/selectors"
	"github.com/metwallet/walletd/internal/core/application/store"
	"github.com/metwallet/walletd/internal/core/application/testutil"
	"github.com/metwallet/walletd/internal/core/domain"
	"github.com/metwallet/walletd/internal/core/ports"
	"github.com/metwallet/walletd/internal/interfaces/ws"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = time.Second
	tick    = 5 * time.Millisecond
)

type frame struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Event   string          `json:"event,omitempty"`
	Method  string          `json:"method,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// walletClient is a fake wallet client.
type walletClient struct {
	conn *websocket.Conn
}

func dial(t *testing.T, url string) *walletClient {
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(url, "http"), nil)
	require.NoError(t, err)
	return &walletClient{conn}
}

func (c *walletClient) sendEvent(t *testing.T, tag, payload string) {
	require.NoError(t, c.conn.WriteJSON(frame{
		Type:    "event",
		Event:   tag,
		Payload: json.RawMessage(payload),
	}))
}

// serve answers every request with handler until the connection closes.
func (c *walletClient) serve(handler func(req frame) frame) {
	go func() {
		for {
			var req frame
			if err := c.conn.ReadJSON(&req); err != nil {
				return
			}
			res := handler(req)
			res.Type = "response"
			res.ID = req.ID
			if err := c.conn.WriteJSON(res); err != nil {
				return
			}
		}
	}()
}

func newBridge(t *testing.T) (*store.Store, *ws.Bridge, *httptest.Server) {
	return newBridgeWithBalances(t, testutil.Balances{}, testutil.Balances{})
}

func newBridgeWithBalances(
	t *testing.T, eth, qtum testutil.Balances,
) (*store.Store, *ws.Bridge, *httptest.Server) {
	s, err := testutil.NewStore(testutil.NewInitialState(eth, qtum))
	require.NoError(t, err)

	bridge := ws.NewBridge(s, 0)
	server := httptest.NewServer(bridge)
	t.Cleanup(func() {
		bridge.Close()
		server.Close()
	})
	return s, bridge, server
}

func TestBridgeEvents(t *testing.T) {
	t.Parallel()

	s, bridge, server := newBridge(t)
	client := dial(t, server.URL)
	defer client.conn.Close()

	select {
	case <-bridge.Ready():
	case <-time.After(waitFor):
		t.Fatal("bridge not ready")
	}
	require.Eventually(t, func() bool {
		return s.State().Connectivity.Connections[ws.ConnectionKey]
	}, waitFor, tick)

	client.sendEvent(t, "coin-block", `{"number":100}`)
	client.sendEvent(t, "unknown-event", `{}`)
	client.sendEvent(t, "wallet-error", `{"message":"wrong password"}`)

	require.Eventually(t, func() bool {
		return selectors.BlockHeight(s.State()) == 100 &&
			selectors.LastError(s.State()) == "wrong password"
	}, waitFor, tick)

	client.sendEvent(t, "active-chain-changed", `"btc"`)
	select {
	case err := <-bridge.Err():
		require.ErrorIs(t, err, domain.ErrChainNotEnabled)
	case <-time.After(waitFor):
		t.Fatal("expected dispatch error")
	}

	client.conn.Close()
	require.Eventually(t, func() bool {
		connected, ok := s.State().Connectivity.Connections[ws.ConnectionKey]
		return ok && !connected
	}, waitFor, tick)
}

func TestClientCalls(t *testing.T) {
	t.Parallel()

	_, bridge, server := newBridge(t)
	client := ws.NewClient(bridge, nil)
	ctx := context.Background()

	_, err := client.GetGasLimit(ctx, ports.GasLimitRequest{})
	require.ErrorIs(t, err, ws.ErrNotConnected)

	wallet := dial(t, server.URL)
	defer wallet.conn.Close()
	wallet.serve(func(req frame) frame {
		switch req.Method {
		case "getGasLimit":
			var params ports.GasLimitRequest
			if err := json.Unmarshal(req.Payload, &params); err != nil || params.Chain != testutil.EthChain {
				return frame{Error: "bad params"}
			}
			return frame{Payload: json.RawMessage(`21000`)}
		case "getTokensGasLimit":
			return frame{Payload: json.RawMessage(`"0x3d090"`)}
		case "getPortFees":
			return frame{Payload: json.RawMessage(`"1000"`)}
		case "sendCoin":
			return frame{Payload: json.RawMessage(`"0xhash"`)}
		case "onInit":
			config := testutil.NewConfig()
			delete(config.Chains, testutil.QtumChain)
			buf, _ := json.Marshal(config)
			return frame{Payload: buf}
		default:
			return frame{Error: "not supported"}
		}
	})
	<-bridge.Ready()

	gas, err := client.GetGasLimit(ctx, ports.GasLimitRequest{Chain: testutil.EthChain})
	require.NoError(t, err)
	require.Equal(t, uint64(21000), gas)

	gas, err = client.GetTokensGasLimit(ctx, ports.GasLimitRequest{})
	require.NoError(t, err)
	require.Equal(t, uint64(250000), gas)

	fee, err := client.GetPortFees(ctx, ports.PortFeesRequest{})
	require.NoError(t, err)
	require.Equal(t, "1000", fee)

	hash, err := client.SendCoin(ctx, ports.SendRequest{})
	require.NoError(t, err)
	require.Equal(t, "0xhash", hash)

	err = client.OnLinkClick(ctx, "https://metronome.io")
	var remoteErr *ws.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	require.Equal(t, "not supported", remoteErr.Message)

	// Chains missing from the client config must be completed locally.
	_, err = client.OnInit(ctx)
	require.ErrorIs(t, err, domain.ErrMissingChainConfig)

	client = ws.NewClient(bridge, testutil.NewConfig().Chains)
	config, err := client.OnInit(ctx)
	require.NoError(t, err)
	require.Contains(t, config.Chains, testutil.QtumChain)
}

func TestPendingCallsFailOnDisconnect(t *testing.T) {
	t.Parallel()

	_, bridge, server := newBridge(t)
	client := ws.NewClient(bridge, nil)

	wallet := dial(t, server.URL)
	<-bridge.Ready()

	errChan := make(chan error, 1)
	go func() {
		_, err := client.GetGasPrice(context.Background(), testutil.EthChain)
		errChan <- err
	}()

	// Wait for the request to reach the client, then drop the connection.
	var req frame
	require.NoError(t, wallet.conn.ReadJSON(&req))
	require.Equal(t, "getGasPrice", req.Method)
	wallet.conn.Close()

	select {
	case err := <-errChan:
		require.ErrorIs(t, err, ws.ErrDisconnected)
	case <-time.After(waitFor):
		t.Fatal("pending call not failed")
	}
}

func TestCallTimeout(t *testing.T) {
	t.Parallel()

	_, bridge, server := newBridge(t)
	client := ws.NewClient(bridge, nil)

	wallet := dial(t, server.URL)
	defer wallet.conn.Close()
	<-bridge.Ready()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.GetAppVersion(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLocalHelpers(t *testing.T) {
	t.Parallel()

	client := ws.NewClient(nil, nil)
	config := testutil.NewConfig()
	qtum := config.Chains[testutil.QtumChain]

	wei, err := client.FromCoin(qtum, "1.5")
	require.NoError(t, err)
	require.Equal(t, "150000000", wei)

	coin, err := client.ToCoin(qtum, wei)
	require.NoError(t, err)
	require.Equal(t, "1.5", coin)

	wei, err = client.ToWei("2", "ether")
	require.NoError(t, err)
	require.Equal(t, "2000000000000000000", wei)

	require.True(t, client.IsAddress(qtum, testutil.EthAddress))
	require.False(t, client.IsAddress(qtum, "0x1234"))

	mnemonic, err := client.CreateMnemonic(context.Background())
	require.NoError(t, err)
	require.True(t, client.IsValidMnemonic(mnemonic))
	require.Greater(t, client.GetStringEntropy("correct horse battery staple"), 72.0)
}
