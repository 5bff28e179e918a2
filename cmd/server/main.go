package main

import (
	"github.com/dwarvesf/justthetip/internal/server"
)

// @title JustTheTip API
// @version 1.0
// @description Withdrawal queue, multisig approvals and rate limiting for the JustTheTip Discord bot.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	server.Init()
}
