// Command kitchenctl drives the session manager and the post feed against the
// configured storage backend from a terminal.
package main

import (
	"fmt"
	"os"

	"momskitchen/internal/config"
	"momskitchen/internal/kvstore"
)

func main() {
	cmd := newRootCmd(kvstore.Open, config.LoadConfig)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
