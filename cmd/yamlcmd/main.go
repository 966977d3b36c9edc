package main

import (
	"github.com/LiboWorks/yamlcmd/cmd"
)

func main() {
	cmd.Execute()
}
