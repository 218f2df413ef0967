package main

import "github.com/Tiliavir/trivial-attendance-tracker/cmd"

func main() {
	cmd.Execute()
}
