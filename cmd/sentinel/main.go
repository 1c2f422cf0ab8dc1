package main

import (
	"github.com/researchctl/sentinel/internal/cli"
	"github.com/researchctl/sentinel/internal/version"
)

func main() {
	root := cli.RootCmd(version.String())
	cli.Run(root)
}
