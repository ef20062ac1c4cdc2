package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/metwallet/walletd/internal/core/application/selectors"
	"github.com/urfave/cli/v2"
)

var status = cli.Command{
	Name:   "status",
	Usage:  "show the active chain, address and sync status",
	Action: statusAction,
}

var features = cli.Command{
	Name:   "features",
	Usage:  "list the wallet features and why they are disabled, if so",
	Action: featuresAction,
}

var txs = cli.Command{
	Name:   "txs",
	Usage:  "list the transactions of the active wallet, pending first",
	Action: txsAction,
}

var chains = cli.Command{
	Name:   "chains",
	Usage:  "list the enabled chains with their balance and ready status",
	Action: chainsAction,
}

var portDestinations = cli.Command{
	Name:   "port-destinations",
	Usage:  "list the chains MET can be ported to",
	Action: portDestinationsAction,
}

var failedImports = cli.Command{
	Name:   "failed-imports",
	Usage:  "list the ports whose import failed and can be retried",
	Action: failedImportsAction,
}

var ongoingImports = cli.Command{
	Name:   "ongoing-imports",
	Usage:  "list the import requests waiting for attestations",
	Action: ongoingImportsAction,
}

var export = cli.Command{
	Name:  "export",
	Usage: "export the persisted state as a snapshot",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "out",
			Usage: "file to write the snapshot to, stdout if missing",
		},
	},
	Action: exportAction,
}

type statusReply struct {
	ActiveChain    string `json:"activeChain"`
	CoinSymbol     string `json:"coinSymbol"`
	ActiveAddress  string `json:"activeAddress"`
	BlockHeight    int64  `json:"blockHeight"`
	TxSyncStatus   string `json:"txSyncStatus"`
	IsMultiChain   bool   `json:"isMultiChain"`
	CoinBalanceUSD string `json:"coinBalanceUSD"`
}

func statusAction(ctx *cli.Context) error {
	s, err := getState(ctx)
	if err != nil {
		return err
	}

	return printJSON(ctx, statusReply{
		ActiveChain:    selectors.ActiveChain(s),
		CoinSymbol:     selectors.CoinSymbol(s),
		ActiveAddress:  selectors.ActiveAddress(s),
		BlockHeight:    selectors.BlockHeight(s),
		TxSyncStatus:   selectors.TxSyncStatus(s),
		IsMultiChain:   selectors.IsMultiChain(s),
		CoinBalanceUSD: selectors.CoinBalanceUSD(s),
	})
}

func featuresAction(ctx *cli.Context) error {
	s, err := getState(ctx)
	if err != nil {
		return err
	}
	return printJSON(ctx, selectors.FeatureStates(s))
}

func txsAction(ctx *cli.Context) error {
	s, err := getState(ctx)
	if err != nil {
		return err
	}
	return printJSON(ctx, selectors.ActiveWalletTxRows(s))
}

func chainsAction(ctx *cli.Context) error {
	s, err := getState(ctx)
	if err != nil {
		return err
	}

	return printJSON(ctx, map[string]interface{}{
		"chains": selectors.ChainsWithBalances(s),
		"ready":  selectors.ChainsReadyStatus(s),
	})
}

func portDestinationsAction(ctx *cli.Context) error {
	s, err := getState(ctx)
	if err != nil {
		return err
	}
	return printJSON(ctx, selectors.PortDestinations(s))
}

func failedImportsAction(ctx *cli.Context) error {
	s, err := getState(ctx)
	if err != nil {
		return err
	}
	return printJSON(ctx, selectors.FailedImports(s))
}

func ongoingImportsAction(ctx *cli.Context) error {
	s, err := getState(ctx)
	if err != nil {
		return err
	}
	return printJSON(ctx, selectors.OngoingImports(s))
}

func exportAction(ctx *cli.Context) error {
	persisted, err := readPersistedState(ctx)
	if err != nil {
		return err
	}

	out := ctx.String("out")
	if out == "" {
		return printJSON(ctx, persisted)
	}

	buf, err := json.MarshalIndent(persisted, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, buf, 0600); err != nil {
		return fmt.Errorf("writing to file: %w", err)
	}
	return nil
}
