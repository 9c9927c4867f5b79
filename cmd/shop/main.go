package main

import "github.com/idilsaglam/shoplist/internal/cli"

func main() {
	cli.Main()
}
