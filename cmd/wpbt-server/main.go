package main

import "github.com/wpbt/beta-tester/cmd/wpbt-server/cmd"

func main() {
	cmd.Execute()
}
