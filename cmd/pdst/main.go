package main

import "github.com/aweris/pdst/cmd/pdst/cmd"

func main() {
	cmd.Execute()
}
