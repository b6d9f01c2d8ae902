package main

import "github.com/mj1618/desktop-borders/cmd"

func main() {
	cmd.Execute()
}
