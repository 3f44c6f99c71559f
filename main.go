package main

import "github.com/kamusis/chroma/cmd"

func main() {
	cmd.Execute()
}
