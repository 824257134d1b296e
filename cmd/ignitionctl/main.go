// Command ignitionctl resolves named coordinator profiles (plus flag,
// environment, or config-file overrides) into a concrete configuration a
// host application's ignition.New call can apply. It is a standalone
// collaborator: it never imports a host application's signals and the core
// ignition package never imports it.
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
