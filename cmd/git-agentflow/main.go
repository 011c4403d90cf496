package main

import "git-agentflow/internal/cli"

func main() {
	cli.Execute()
}
