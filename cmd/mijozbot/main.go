package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"

	corecmd "mijozbot/core/cmd"
	"mijozbot/internal/bot"
	"mijozbot/internal/config"
)

func main() {
	// Missing .env is fine; environment may be set by the supervisor.
	_ = godotenv.Load()

	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return config.Load(path)
		},
		Bootstrap: func(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			cfg, ok := carrier.(*config.Config)
			if !ok {
				return nil, fmt.Errorf("unexpected config type %T", carrier)
			}
			return bot.New(cfg)
		},
	})
	if err != nil {
		log.Fatalf("mijozbot: %v", err)
	}
}
