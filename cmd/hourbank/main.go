package main

import "github.com/hourbank-network/hourbank/internal/cli"

func main() {
	cli.Execute()
}
