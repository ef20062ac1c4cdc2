package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/metwallet/walletd/internal/config"
	"github.com/metwallet/walletd/internal/core/application/store"
	"github.com/metwallet/walletd/internal/core/domain"
	dbbadger "github.com/metwallet/walletd/internal/infrastructure/storage/db/badger"
	"github.com/urfave/cli/v2"
)

var errNoSnapshot = errors.New(
	"no state persisted yet: start the daemon or pass --snapshot",
)

// getState rebuilds the application state from the snapshot file, if
// given, or from the daemon database otherwise. The daemon must not be
// running in the latter case.
func getState(ctx *cli.Context) (domain.State, error) {
	persisted, err := readPersistedState(ctx)
	if err != nil {
		return domain.State{}, err
	}

	st := store.NewStore()
	if err := st.Dispatch(context.Background(), store.InitialStateReceived{
		Config: persisted.Config,
		Chains: persisted.Chains,
	}); err != nil {
		return domain.State{}, fmt.Errorf("invalid snapshot: %w", err)
	}

	if chain := ctx.String(chainFlag.Name); chain != "" {
		if err := st.Dispatch(context.Background(), store.ActiveChainChanged{
			Chain: chain,
		}); err != nil {
			return domain.State{}, err
		}
	}
	return st.State(), nil
}

func readPersistedState(ctx *cli.Context) (*domain.PersistedState, error) {
	if path := ctx.String(snapshotFlag.Name); path != "" {
		buf, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("unable to read snapshot: %w", err)
		}
		var persisted domain.PersistedState
		if err := json.Unmarshal(buf, &persisted); err != nil {
			return nil, fmt.Errorf("unable to parse snapshot: %w", err)
		}
		return &persisted, nil
	}

	if err := config.InitConfig(); err != nil {
		return nil, err
	}
	if config.GetString(config.DBTypeKey) != config.DBBadger {
		return nil, errNoSnapshot
	}

	repo, err := dbbadger.NewStateRepositoryImpl(config.GetDbDir(), nil)
	if err != nil {
		return nil, fmt.Errorf("unable to open daemon database: %w", err)
	}
	defer repo.Close()

	persisted, err := repo.Get(context.Background())
	if err != nil {
		return nil, err
	}
	if persisted == nil {
		return nil, errNoSnapshot
	}
	return persisted, nil
}
