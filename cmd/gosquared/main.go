package main

import (
	"github.com/leshachaplin/gosquared/app"
	"github.com/leshachaplin/gosquared/internal/config"
)

func main() {
	app.New(config.Load).Start()
}
