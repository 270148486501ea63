package main

import "github.com/mcoot/unogame/internal/cli"

func main() {
	cli.Execute()
}
