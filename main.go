package main

import (
	"github.com/joho/godotenv"

	"github.com/gh-insights/repo-analyzer/cmd"
)

func main() {
	// A missing .env file is fine; the token can come from the environment.
	_ = godotenv.Load()
	cmd.Execute()
}
