package main

import (
	"github.com/vibelab/promptrec/internal/adapters/driving/cli"
)

func main() {
	cli.Execute()
}
