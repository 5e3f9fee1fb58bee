package main

import (
	"github.com/cheahjs/punchsim/internal/command/root"
)

func main() {
	root.NewRootCommand().Execute()
}
