package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/metwallet/walletd/internal/core/domain"
)

var tagEvents = func() map[string]EventType {
	m := make(map[string]EventType, len(eventTags))
	for t, tag := range eventTags {
		m[tag] = t
	}
	return m
}()

// ParseEvent maps a wire message, made of a tag and a JSON payload, to its
// typed event.
func ParseEvent(tag string, payload []byte) (Event, error) {
	ev, err := parseEvent(tag, payload)
	if err != nil {
		return nil, err
	}
	return ev, nil
}

func parseEvent(tag string, payload []byte) (Event, error) {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	if key := strings.TrimSuffix(tag, connectionStatusSuffix); key != tag {
		if key == "" {
			return nil, fmt.Errorf("%w: %s", ErrUnknownEvent, tag)
		}
		ev := ConnectionStatusChanged{Key: key}
		if err := decode(tag, payload, &ev); err != nil {
			return nil, err
		}
		return ev, nil
	}

	t, ok := tagEvents[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEvent, tag)
	}

	switch t {
	case EventInitialStateReceived:
		ev := InitialStateReceived{}
		err := decode(tag, payload, &ev)
		return ev, err
	case EventWalletStateChanged:
		return parseWalletStateChanged(tag, payload)
	case EventCoinBlock:
		ev := CoinBlock{}
		err := decode(tag, payload, &ev)
		return ev, err
	case EventCoinPriceUpdated:
		ev := CoinPriceUpdated{}
		err := decode(tag, payload, &ev)
		return ev, err
	case EventGasPriceUpdated:
		ev := GasPriceUpdated{}
		if isJSONString(payload) {
			err := decode(tag, payload, &ev.GasPrice)
			return ev, err
		}
		err := decode(tag, payload, &ev)
		return ev, err
	case EventAuctionStatusUpdated:
		ev := AuctionStatusUpdated{}
		err := decode(tag, payload, &ev)
		return ev, err
	case EventConverterStatusUpdated:
		ev := ConverterStatusUpdated{}
		err := decode(tag, payload, &ev)
		return ev, err
	case EventAttestationThresholdUpdated:
		ev := AttestationThresholdUpdated{}
		err := decode(tag, payload, &ev)
		return ev, err
	case EventChainHopStartTimeUpdated:
		ev := ChainHopStartTimeUpdated{}
		err := decode(tag, payload, &ev)
		return ev, err
	case EventConnectivityStateChanged:
		ev := ConnectivityStateChanged{}
		err := decode(tag, payload, &ev)
		return ev, err
	case EventTransactionsScanStarted:
		ev := TransactionsScanStarted{}
		err := decode(tag, payload, &ev)
		return ev, err
	case EventTransactionsScanFinished:
		ev := TransactionsScanFinished{}
		err := decode(tag, payload, &ev)
		return ev, err
	case EventTransactionsSyncStatusChanged:
		ev := TransactionsSyncStatusChanged{}
		err := decode(tag, payload, &ev)
		return ev, err
	case EventSessionStarted:
		return SessionStarted{}, nil
	case EventRequiredDataGathered:
		return RequiredDataGathered{}, nil
	case EventWalletError:
		ev := WalletError{}
		err := decode(tag, payload, &ev)
		return ev, err
	case EventActiveChainChanged:
		ev := ActiveChainChanged{}
		if isJSONString(payload) {
			err := decode(tag, payload, &ev.Chain)
			return ev, err
		}
		err := decode(tag, payload, &ev)
		return ev, err
	case EventCreateWallet:
		ev := CreateWallet{}
		err := decode(tag, payload, &ev)
		return ev, err
	case EventOpenWallets:
		ev := OpenWallets{}
		err := decode(tag, payload, &ev)
		return ev, err
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownEvent, tag)
}

// EncodeEvent returns the wire tag and JSON payload of the given event.
func EncodeEvent(ev Event) (string, []byte, error) {
	tag := ev.Type().String()
	if e, ok := ev.(ConnectionStatusChanged); ok {
		tag = e.Tag()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return "", nil, err
	}
	return tag, payload, nil
}

// parseWalletStateChanged accepts both {chain, wallets: {id: wallet}} and
// the flat {chain, id: wallet} payloads.
func parseWalletStateChanged(tag string, payload []byte) (Event, error) {
	raw := map[string]json.RawMessage{}
	if err := decode(tag, payload, &raw); err != nil {
		return nil, err
	}

	ev := WalletStateChanged{Wallets: map[string]domain.Wallet{}}
	if chain, ok := raw["chain"]; ok {
		if err := decode(tag, chain, &ev.Chain); err != nil {
			return nil, err
		}
		delete(raw, "chain")
	}
	if wallets, ok := raw["wallets"]; ok {
		if err := decode(tag, wallets, &ev.Wallets); err != nil {
			return nil, err
		}
		return ev, nil
	}
	for id, data := range raw {
		wallet := domain.Wallet{}
		if err := decode(tag, data, &wallet); err != nil {
			return nil, err
		}
		ev.Wallets[id] = wallet
	}
	return ev, nil
}

func decode(tag string, payload []byte, v interface{}) error {
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("%w: %s: %s", ErrMalformedPayload, tag, err)
	}
	return nil
}

func isJSONString(payload []byte) bool {
	return len(payload) > 0 && payload[0] == '"'
}
