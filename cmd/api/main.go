package main

import (
	"os"

	"petworld/internal/cli"
)

// @title Petworld API
// @version 1.0
// @description Mascotas virtuales: vitalidad con decay por tiempo, interacciones e historial.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
