package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/onenightdrink/api/cmd/app"
)

// @contact.name   OneNightDrink Support
// @contact.email  support@onenightdrink.app
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token
//
// @securityDefinitions.apikey BarBearerAuth
// @in header
// @name Authorization
// @description Bearer token issued to bar staff accounts
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}
