package main

import (
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine; environment overrides still apply.
	_ = godotenv.Load()

	Execute()
}
