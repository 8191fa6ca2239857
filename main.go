package main

import "github.com/commune-hq/commune/cmd"

func main() {
	cmd.Execute()
}
