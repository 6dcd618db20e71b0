package main

import "github.com/theirongolddev/richlife/cmd"

func main() {
	cmd.Execute()
}
