package main

import "github.com/nhle/foldersync/cmd/foldersync/cmd"

func main() {
	cmd.Execute()
}
