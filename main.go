package main

import "github.com/theirongolddev/soiree/cmd"

func main() {
	cmd.Execute()
}
