package main

import (
	"flag"
	"os"
	"path/filepath"
)

// env returns the value of an environment variable if provided (even if empty)
// or a fallback value.
func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

// flHome registers the home directory flag shared by all commands.
func flHome(fl *flag.FlagSet) *string {
	return fl.String("home", env("BARTER_HOME", filepath.Join(os.Getenv("HOME"), ".barter")),
		"Directory holding the configuration and the database. You can use BARTER_HOME environment variable to set it.")
}

// flKey registers the private key path flag.
func flKey(fl *flag.FlagSet) *string {
	return fl.String("key", env("BARTER_PRIV_KEY", filepath.Join(os.Getenv("HOME"), ".barter.priv.key")),
		"Path to the private key file that transaction should be signed with. You can use BARTER_PRIV_KEY environment variable to set it.")
}
