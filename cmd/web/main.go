// @title           MediScan API
// @version         1.0
// @description     Scan entitlement, payment and analysis backend for the MediScan dashboard.
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:5000
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import "mediscan_backend/internal/app"

func main() {
	app.Run()
}
