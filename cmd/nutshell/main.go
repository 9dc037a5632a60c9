package main

import (
	"github.com/csams/nutshell/internal/cmd"
	"github.com/csams/nutshell/internal/config"
	"github.com/csams/nutshell/internal/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
