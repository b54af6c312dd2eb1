package main

import "splitmark/cmd/splitmark-cli/cmd"

func main() {
	cmd.Execute()
}
