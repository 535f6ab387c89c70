package main

import "github.com/jscyril/playlist_manager/internal/cli"

func main() {
	cli.Execute()
}
