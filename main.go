package main

import "github.com/Alijeyrad/halisaha_backend/cmd"

func main() {
	cmd.Execute()
}
