package main

import "github.com/kamal-hamza/obras-cli/cmd"

func main() {
	cmd.Execute()
}
