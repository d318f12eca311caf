package main

import "profile-sync/cmd"

func main() {
	cmd.Execute()
}
