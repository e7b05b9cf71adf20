package main

import "github.com/OpenTraceLab/pcbnet/cmd/pcbnet/cmd"

func main() {
	cmd.Execute()
}
