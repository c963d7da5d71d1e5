package main

import "github.com/iksnae/punks-mint/cmd"

func main() {
	cmd.Execute()
}
