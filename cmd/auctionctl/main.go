package main

import "github.com/mcoot/playerauction-go/internal/cli"

func main() {
	cli.Execute()
}
