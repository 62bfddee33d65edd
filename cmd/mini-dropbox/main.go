package main

import (
	"github.com/dylan0804/mini-dropbox/internal/client/cmd"
)

func main() {
	cmd.Execute()
}
