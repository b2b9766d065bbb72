package main

import (
	"github.com/nestorwheelock/osint-search/cmd/cmd"
	"github.com/nestorwheelock/osint-search/internal/logger"
)

func main() {
	logger.Init()
	cmd.Execute()
}
