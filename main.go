package main

import "pysel/src/cmd"

func main() {
	cmd.Execute()
}
