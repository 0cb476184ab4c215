package main

import "tubefetch/cmd"

func main() {
	cmd.Execute()
}
