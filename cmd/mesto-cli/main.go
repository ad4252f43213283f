package main

import "github.com/nfrund/mesto/cmd/mesto-cli/cmd"

func main() {
	cmd.Execute()
}
