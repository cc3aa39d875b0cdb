// The main package for the quotes-crawler executable.
package main

import (
	"github.com/quotesdb/quotes-crawler/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
