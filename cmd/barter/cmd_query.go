package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/x/escrow"
	"github.com/iov-one/barter/x/ledger"
)

func cmdEscrow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the escrow stored under given address, together with its locked amount.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl   = flHome(fl)
		escrowFl = flAddress(fl, "escrow", "", "Address of the escrow.")
	)
	fl.Parse(args)

	r, _, err := openRunner(*homeFl)
	if err != nil {
		return err
	}
	defer r.Close()

	var view escrow.EscrowView
	if err := query(r, "/escrows", *escrowFl, &view); err != nil {
		return err
	}
	return printJSON(output, view)
}

func cmdEscrows(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print all open escrows of a maker. By default the maker is the owner of the
private key.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl  = flHome(fl)
		keyFl   = flKey(fl)
		makerFl = flPubkey(fl, "maker", "Hex encoded public key of the maker.")
	)
	fl.Parse(args)

	maker := *makerFl
	if len(maker) == 0 {
		key, err := decodePrivateKey(*keyFl)
		if err != nil {
			return err
		}
		maker = key.PublicKey()
	}

	r, _, err := openRunner(*homeFl)
	if err != nil {
		return err
	}
	defer r.Close()

	var views []escrow.EscrowView
	if err := query(r, "/escrows/maker", maker, &views); err != nil {
		return err
	}
	return printJSON(output, views)
}

func cmdBalance(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the balance of a holding account. By default the owner is the owner of
the private key.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl   = flHome(fl)
		keyFl    = flKey(fl)
		ownerFl  = flAddress(fl, "owner", "", "Address of the account owner.")
		tickerFl = fl.String("ticker", "", "Asset ticker.")
	)
	fl.Parse(args)

	owner := *ownerFl
	if len(owner) == 0 {
		key, err := decodePrivateKey(*keyFl)
		if err != nil {
			return err
		}
		owner = key.PublicKey().Address()
	}

	r, _, err := openRunner(*homeFl)
	if err != nil {
		return err
	}
	defer r.Close()

	var acc ledger.AccountView
	switch err := query(r, "/accounts", ledger.HoldingAddress(owner, *tickerFl), &acc); {
	case errors.ErrNotFound.Is(err):
		// no holding account means nothing was ever received
	case err != nil:
		return err
	}
	_, err = fmt.Fprintf(output, "%d %s\n", acc.Balance, *tickerFl)
	return err
}
