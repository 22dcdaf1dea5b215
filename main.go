package main

import "github.com/IAMSamuelRodda/zero-agent-sub002/internal/cli"

const version = "0.1.0"

func main() {
	cli.Execute(version)
}
