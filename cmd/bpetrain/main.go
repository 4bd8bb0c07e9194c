package main

import (
	"github.com/finchlabs/go-bpe-trainer/internal/commands"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	commands.Execute(version)
}
