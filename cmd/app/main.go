package main

import (
	"travel/config"
	"travel/di"
	"travel/shared/logger"
)

func main() {
	logger.Init(config.Get())

	di.InitializeService().Serve()
}
