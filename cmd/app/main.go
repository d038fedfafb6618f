// Command app serves the post-earnings chart API.
package main

import (
	"flag"
	"fmt"
	"os"

	"EarnChart/internal/di"
	"EarnChart/pkg/config"

	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	envFile := flag.String("env-file", ".env", "dotenv file loaded before the environment is read")
	flag.Parse()

	if err := run(*configPath, *envFile); err != nil {
		fmt.Fprintf(os.Stderr, "earnchart api: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, envFile string) error {
	// A missing dotenv file is normal outside development.
	_ = godotenv.Load(envFile)

	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	app, err := di.InitializeApp(cfg)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	return app.Run()
}
