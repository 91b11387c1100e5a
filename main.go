package main

import "github.com/sgdash/sgdash/commands"

func main() {
	commands.Execute()
}
