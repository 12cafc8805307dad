package main

import "github.com/tbre-automation/partslist/internal/cli"

func main() {
	cli.Execute()
}
