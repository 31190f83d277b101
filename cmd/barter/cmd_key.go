package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/ed25519"
)

// bech32Prefix is the human readable part of bech32 encoded addresses.
const bech32Prefix = "barter"

func cmdKeygen(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Generate a new private key.

When successful a new file with binary content containing private key is
created. This command fails if the private key file already exists.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = flKey(fl)
	)
	fl.Parse(args)

	if _, err := os.Stat(*keyPathFl); !os.IsNotExist(err) {
		// Do not allow to overwrite already existing private key. User
		// must manually delete it first.
		return fmt.Errorf("private key file %q already exists, delete this file and try again", *keyPathFl)
	}

	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return fmt.Errorf("cannot generate ed25519 key: %s", err)
	}

	fd, err := os.OpenFile(*keyPathFl, os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("cannot create private key file: %s", err)
	}
	defer fd.Close()

	if _, err := fd.Write(priv); err != nil {
		return fmt.Errorf("cannot write private key: %s", err)
	}
	if err := fd.Close(); err != nil {
		return fmt.Errorf("cannot close private key file: %s", err)
	}
	return nil
}

func cmdKeyaddr(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the public key and the address associated with your private key.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = flKey(fl)
		bechFl    = fl.Bool("bech32", false, "Print the address in bech32 format.")
	)
	fl.Parse(args)

	key, err := decodePrivateKey(*keyPathFl)
	if err != nil {
		return err
	}
	pub := key.PublicKey()
	addr := pub.Address().String()
	if *bechFl {
		addr, err = pub.Address().Bech32(bech32Prefix)
		if err != nil {
			return fmt.Errorf("cannot serialize to bech32: %s", err)
		}
		addr = "bech32:" + addr
	}
	_, err = fmt.Fprintf(output, "pubkey:  %s\naddress: %s\n", pub, addr)
	return err
}
