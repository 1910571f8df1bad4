package main

import "snapgrab/cmd"

func main() {
	cmd.Execute()
}
