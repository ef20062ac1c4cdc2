package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

var (
	snapshotFlag = &cli.StringFlag{
		Name:  "snapshot",
		Usage: "path of a state snapshot exported with 'export', the daemon database is read if missing",
	}
	chainFlag = &cli.StringFlag{
		Name:  "chain",
		Usage: "evaluate against the given chain instead of the active one",
	}
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fatal(err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "walletctl"
	app.Usage = "Inspect the state persisted by the walletd daemon"
	app.Flags = []cli.Flag{snapshotFlag, chainFlag}
	app.Commands = append(
		app.Commands,
		&status,
		&features,
		&txs,
		&chains,
		&portDestinations,
		&failedImports,
		&ongoingImports,
		&export,
	)
	return app
}

func printJSON(ctx *cli.Context, v interface{}) error {
	buf, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to encode response: %w", err)
	}
	fmt.Fprintln(ctx.App.Writer, string(buf))
	return nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[walletctl] %v\n", err)
	os.Exit(1)
}
