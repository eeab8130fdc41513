package main

import "github.com/notargets/gobem/cmd"

func main() {
	cmd.Execute()
}
