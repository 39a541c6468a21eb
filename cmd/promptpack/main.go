package main

import "promptpack/internal/cli"

func main() {
	cli.Execute()
}
