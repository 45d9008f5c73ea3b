package main

import "github.com/MeKo-Tech/phiredact/cmd/phiredact/cmd"

func main() {
	cmd.Execute()
}
