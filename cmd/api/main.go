package main

import (
	_ "github.com/joho/godotenv/autoload"
)

// @title       EVO API
// @version     1.0
// @description Vehicle expense tracking with service reminders.
// @BasePath    /
//
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	Execute()
}
