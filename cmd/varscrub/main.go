package main

import (
	"os"

	"github.com/dshills/varscrub/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
