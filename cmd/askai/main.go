// Package main is the entry point for askai.
package main

import "github.com/diogo/askai/internal/commands"

func main() {
	commands.Execute()
}
