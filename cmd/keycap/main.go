package main

import "keycap-layout/cmd/keycap/cmd"

func main() {
	cmd.Execute()
}
