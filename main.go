package main

import "github.com/Brightboard-Labs/brightboard/backend/cmd"

func main() {
	cmd.Execute()
}
