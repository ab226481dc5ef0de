package main

import (
	"fmt"
	"os"

	"github.com/gerunddev/mdlatex/internal/commands"
	"github.com/gerunddev/mdlatex/internal/styles"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styles.Failure(err.Error()))
		os.Exit(1)
	}
}
