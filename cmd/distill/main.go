package main

import "github.com/mvp-joe/distill/internal/cli"

func main() {
	cli.Execute()
}
