package main

import "github.com/LeJamon/goRadixOracle/internal/cli"

func main() {
	cli.Execute()
}
