package main

import "hyakuninquiz/internal/cli"

func main() {
	cli.Execute()
}
