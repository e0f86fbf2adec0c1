package main

import "github.com/iksnae/timekeeper/cmd"

func main() {
	cmd.Execute()
}
