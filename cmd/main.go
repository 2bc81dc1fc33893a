package main

import (
	"sentinel-api/app"
)

// @title           Sentinel API
// @version         1.0
// @description     User-management backend with JWT authentication and Redis token blacklisting.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
