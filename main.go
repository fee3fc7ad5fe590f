package main

import "github.com/peoplekit/peoplekit/cmd"

func main() {
	cmd.Execute()
}
