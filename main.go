package main

import "github.com/bnema/stevedore/internal/adapters/in/cli"

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cli.Execute(version, commit, date)
}
