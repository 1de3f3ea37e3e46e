package main

import "github.com/user/scanmerge/cmd"

func main() {
	cmd.Execute()
}
