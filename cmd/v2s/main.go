package main

import (
	"clipnotes/cmd/v2s/cmd"
)

func main() {
	cmd.Execute()
}
