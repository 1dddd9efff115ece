package main

import (
	"github.com/genomehub/gotermfinder/internal/server"
	"github.com/genomehub/gotermfinder/internal/util"
	"github.com/genomehub/gotermfinder/pkg/logger"
	"github.com/genomehub/gotermfinder/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
