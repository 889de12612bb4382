package main

import "github.com/S-Corkum/sae-inference/internal/cli"

func main() {
	cli.Execute()
}
