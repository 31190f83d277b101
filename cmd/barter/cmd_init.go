package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/barter/app"
	bapp "github.com/iov-one/barter/cmd/barter/app"
)

func cmdInit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Initialize the application state from a genesis file.

The genesis file registers asset types and funds holding accounts:

  {
    "chain_id": "barter-local",
    "app_state": {
      "ledger": {
        "assets": [{"ticker": "AAA", "decimals": 6}],
        "balances": [{"owner": "<hex address>", "ticker": "AAA", "amount": 100}]
      }
    }
  }

The chain id from the configuration file is used when the genesis does not
declare one. A state can be initialized only once.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl    = flHome(fl)
		genesisFl = fl.String("genesis", "genesis.json", "Path to the genesis file.")
	)
	fl.Parse(args)

	gen, err := app.LoadGenesis(*genesisFl)
	if err != nil {
		return err
	}

	r, cfg, err := openRunner(*homeFl)
	if err != nil {
		return err
	}
	defer r.Close()

	if gen.ChainID == "" {
		gen.ChainID = cfg.ChainID
	}
	if err := r.InitChain(gen, bapp.Initializer()); err != nil {
		return fmt.Errorf("cannot initialize: %s", err)
	}
	_, err = fmt.Fprintf(output, "initialized chain %s\n", gen.ChainID)
	return err
}
