package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/duccv/employee-api/internal/app"
)

//	@title			EMPLOYEE SERVICE APIs
//	@version		1.0
//	@description	Employee management Swagger APIs.
//	@termsOfService	http://swagger.io/terms/
//	@contact.name	DucCV
//	@contact.email	duccv@gviet.vn
//	@BasePath		/api

// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
// @description				JWT authorization header
func main() {
	configPath := flag.String("config", "./config", "directory containing config.yaml")
	flag.Parse()

	if err := app.Run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
