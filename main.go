package main

import "github.com/ellavondegurechaff/stakeforge/cmd"

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	cmd.Execute(version, commit)
}
