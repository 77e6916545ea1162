// @title           ECIS Inspection API
// @version         1.0
// @description     Equipment inspection records, checklists, PDF reports and website quote requests
// @termsOfService  http://swagger.io/terms/

// @contact.name   ECIS
// @contact.email  contact@ecis.dz

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey APIKey
// @in header
// @name X-API-Key
// @description Shared API key, or "Bearer" followed by a Keycloak access token in the Authorization header
package main

import "github.com/ecis/inspection-gin/cmd"

func main() {
	cmd.Execute()
}
