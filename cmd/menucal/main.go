package main

import "github.com/yemekhane/menucal/internal/cli"

func main() {
	cli.Execute()
}
