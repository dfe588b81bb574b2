package main

import "github.com/teemow/onedrive-mcp/cmd"

// version is stamped by goreleaser
var version = "dev"

func main() {
	cmd.SetVersion(version)
	cmd.Execute()
}
