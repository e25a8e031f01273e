package main

import "github.com/maastricht-university/alr-timing/cmd"

func main() {
	cmd.Execute()
}
