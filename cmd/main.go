package main

import (
	"fmt"
	"os"

	"localpuppet.io/cli/internal/interfaces/cli"
	"localpuppet.io/cli/internal/interfaces/di"
)

func main() {
	container, err := di.NewContainer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "localpuppet: %v\n", err)
		os.Exit(cli.ExitFatal)
	}

	cli.Execute(container.GetCLIContainer())
}
