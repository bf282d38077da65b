package main

import (
	"github.com/brain-battle/notes-server/cli"
)

func main() {
	cli.Execute()
}
