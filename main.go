package main

import (
	"github.com/daedaleanai/brammap/cmd"
)

func main() {
	cmd.Execute()
}
