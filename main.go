package main

import "github.com/Be-Secure/besecure-developer-toolkit/cmd"

func main() {
	cmd.Execute()
}
