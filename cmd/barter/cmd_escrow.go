package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/x/escrow"
)

func cmdOpen(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Open a new escrow, signed by your private key.

The deposit amount of asset A is moved from your holding account into the
escrow vault. Whoever pays the requested amount of asset B receives the vault
content. The address of the new escrow is printed.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl    = flHome(fl)
		keyFl     = flKey(fl)
		seedFl    = fl.Uint64("seed", 0, "Seed distinguishing escrows of the same maker.")
		assetAFl  = fl.String("asset-a", "", "Ticker of the deposited asset.")
		assetBFl  = fl.String("asset-b", "", "Ticker of the requested asset.")
		depositFl = fl.Uint64("deposit", 0, "Amount of asset A to lock.")
		receiveFl = fl.Uint64("receive", 0, "Amount of asset B required to settle.")
	)
	fl.Parse(args)

	key, err := decodePrivateKey(*keyFl)
	if err != nil {
		return err
	}
	r, _, err := openRunner(*homeFl)
	if err != nil {
		return err
	}
	defer r.Close()

	assetA, err := resolveAsset(r, *assetAFl)
	if err != nil {
		return err
	}
	assetB, err := resolveAsset(r, *assetBFl)
	if err != nil {
		return err
	}
	msg := &escrow.OpenMsg{
		Maker:          key.PublicKey(),
		Seed:           *seedFl,
		AssetA:         assetA,
		AssetB:         assetB,
		AmountRequired: *receiveFl,
		DepositAmount:  *depositFl,
	}
	res, err := submit(r, key, msg)
	if err != nil {
		return fmt.Errorf("cannot open escrow: %s", err)
	}
	_, err = fmt.Fprintln(output, barter.Address(res.Data))
	return err
}

func cmdSettle(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Settle an escrow, signed by your private key.

The requested amount of asset B is paid to the maker and the vault content is
transferred to you. The escrow is closed afterwards.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl   = flHome(fl)
		keyFl    = flKey(fl)
		escrowFl = flAddress(fl, "escrow", "", "Address of the escrow to settle.")
	)
	fl.Parse(args)

	key, err := decodePrivateKey(*keyFl)
	if err != nil {
		return err
	}
	r, _, err := openRunner(*homeFl)
	if err != nil {
		return err
	}
	defer r.Close()

	// Maker and assets must repeat the stored values, so they are read
	// from the state that is visible now.
	var view escrow.EscrowView
	if err := query(r, "/escrows", *escrowFl, &view); err != nil {
		return fmt.Errorf("cannot load escrow: %s", err)
	}
	msg := &escrow.SettleMsg{
		Taker:  key.PublicKey(),
		Escrow: *escrowFl,
		Maker:  view.Maker,
		AssetA: view.AssetA,
		AssetB: view.AssetB,
	}
	if _, err := submit(r, key, msg); err != nil {
		return fmt.Errorf("cannot settle escrow: %s", err)
	}
	_, err = fmt.Fprintf(output, "received %d %s for %d %s\n",
		view.Locked, view.AssetA.Ticker, view.AmountRequired, view.AssetB.Ticker)
	return err
}

func cmdCancel(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Cancel an escrow you opened, signed by your private key.

The vault content is returned to your holding account and the escrow is
closed.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl   = flHome(fl)
		keyFl    = flKey(fl)
		escrowFl = flAddress(fl, "escrow", "", "Address of the escrow to cancel.")
	)
	fl.Parse(args)

	key, err := decodePrivateKey(*keyFl)
	if err != nil {
		return err
	}
	r, _, err := openRunner(*homeFl)
	if err != nil {
		return err
	}
	defer r.Close()

	msg := &escrow.CancelMsg{
		Maker:  key.PublicKey(),
		Escrow: *escrowFl,
	}
	if _, err := submit(r, key, msg); err != nil {
		return fmt.Errorf("cannot cancel escrow: %s", err)
	}
	_, err = fmt.Fprintln(output, "cancelled")
	return err
}
