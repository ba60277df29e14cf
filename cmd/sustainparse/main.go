package main

import "github.com/dgallion1/sustainparse/internal/cli"

func main() {
	cli.Execute()
}
