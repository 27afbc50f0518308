package main

import (
	"os"

	"foodshare/internal/cli"
)

func main() {
	os.Exit(cli.New().Execute())
}
