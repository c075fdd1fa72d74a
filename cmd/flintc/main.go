package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if err != errPrinted {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
