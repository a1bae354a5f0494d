// Command viewfind inspects and renders views configured in a views.Config
// file. It's mostly useful for debugging template resolution: which paths
// are searched for a type ID, which one wins, and what it renders.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
