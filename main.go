package main

import "github.com/mj1618/desktop-recorder/cmd"

func main() {
	cmd.Execute()
}
