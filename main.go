package main

import (
	"github.com/SCN0mad/scuba-app-backend/startup"
	"github.com/SCN0mad/scuba-app-backend/startup/config"
)

func main() {
	cfg := config.NewConfig()
	server := startup.NewServer(cfg)
	server.Start()

}
