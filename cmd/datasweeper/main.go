package main

import (
	"os"

	"github.com/wdm0006/datasweeper/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
