package main

import "github.com/ykohei-dev/gh-contribs/cmd"

func main() {
	cmd.Execute()
}
