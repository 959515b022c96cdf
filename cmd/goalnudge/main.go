// Command goalnudge evaluates goals, inspects the chat knowledge base and manages the database.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
