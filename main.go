package main

import "github.com/repolint/repolint/cmd"

func main() {
	cmd.Execute()
}
