package main

import "github.com/esiddiqui/agriwell/cmd"

func main() {
	cmd.Exec()
}
