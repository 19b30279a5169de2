package main

import (
	"os"

	_ "mystery_boxes/docs"
	"mystery_boxes/internal/cli"

	_ "github.com/joho/godotenv/autoload"
)

// @title           Mystery Boxes API
// @version         1.0
// @description     Mystery box shop (boxes A-Z, holds, payments, admin) backed by DynamoDB or Postgres.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080

// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token from /api/admin-login.

func main() {
	os.Exit(cli.Execute())
}
