package main

import "github.com/wpbt/beta-tester/cmd/wpbt/cmd"

func main() {
	cmd.Execute()
}
