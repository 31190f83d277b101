package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/crypto"
)

// flAddress returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided. This
// function follows Go's flag package convention.
// If given value cannot be deserialized to required type, process is
// terminated.
func flAddress(fl *flag.FlagSet, name, defaultVal, usage string) *barter.Address {
	var a barter.Address
	if defaultVal != "" {
		var err error
		a, err = barter.ParseAddress(defaultVal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q barter.Address flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var((*flagAddress)(&a), name, usage)
	return &a
}

type flagAddress barter.Address

func (a flagAddress) String() string {
	if len(a) == 0 {
		return ""
	}
	return barter.Address(a).String()
}

func (a *flagAddress) Set(raw string) error {
	addr, err := barter.ParseAddress(raw)
	if err != nil {
		return err
	}
	*a = flagAddress(addr)
	return nil
}

// flPubkey returns a hex encoded public key flag value.
func flPubkey(fl *flag.FlagSet, name, usage string) *crypto.PublicKey {
	var p crypto.PublicKey
	fl.Var((*flagPubkey)(&p), name, usage)
	return &p
}

type flagPubkey crypto.PublicKey

func (p flagPubkey) String() string {
	return crypto.PublicKey(p).String()
}

func (p *flagPubkey) Set(raw string) error {
	key, err := crypto.ParsePublicKey(raw)
	if err != nil {
		return err
	}
	*p = flagPubkey(key)
	return nil
}
