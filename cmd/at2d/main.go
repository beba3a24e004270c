package main

import (
	"github.com/LeJamon/goAT2/internal/cli"
)

func main() {
	cli.Execute()
}
