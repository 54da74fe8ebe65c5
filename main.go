package main

import "github.com/kivo360/omoictl/cmd"

func main() {
	cmd.Execute()
}
