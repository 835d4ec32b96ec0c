package main

import (
	"github.com/tecsup/order-svc/internal/app"
	"github.com/tecsup/order-svc/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
