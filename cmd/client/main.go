package main

import "timekeeper/cmd/client/cmd"

func main() {
	cmd.Execute()
}
