package main

import "github.com/mj1618/autotap/cmd"

func main() {
	cmd.Execute()
}
