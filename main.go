package main

import "oculurum/cmd"

func main() {
	cmd.Execute()
}
