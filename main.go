package main

import "github.com/Digital-Shane/semv/internal/cmd"

func main() {
	cmd.Execute()
}
