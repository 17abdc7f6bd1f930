package main

import "github.com/kozaktomas/classwatch/cmd"

func main() {
	cmd.Execute()
}
