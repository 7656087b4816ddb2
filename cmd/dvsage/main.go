package main

import (
	"github.com/custodia-labs/dvsage-cli/internal/adapters/driving/cli"
)

// version is overridden at build time:
//
//	go build -ldflags "-X main.version=v1.2.3"
var version = "dev"

func main() {
	cli.Execute(version)
}
