package main

import (
	"github.com/joho/godotenv"

	"peopleops/internal/app/server"
)

func main() {
	_ = godotenv.Load()
	server.Run()
}
