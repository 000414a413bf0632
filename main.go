package main

import "github.com/Antoink/SDRV3/cmd"

func main() {
	cmd.Execute()
}
