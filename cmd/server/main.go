package main

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/claimlens/claimlens/internal/cache"
	"github.com/claimlens/claimlens/internal/forensic"
	"github.com/claimlens/claimlens/internal/server"
	"github.com/claimlens/claimlens/internal/store"
)

func getConfigPath() string {
	// First check if config path is provided via environment variable
	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		return configPath
	}

	// Default to config/config.yaml in current working directory
	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return filepath.Join(cwd, "config", "config.yaml")
}

func main() {
	// Load configuration
	configPath := getConfigPath()
	config, err := server.LoadConfig(configPath)
	if err != nil {
		log.Printf("failed to load config from %s: %v", configPath, err)
		panic(err)
	}

	reports, err := store.NewStore(config.Database.Type, config.Database.ConnectionString)
	if err != nil {
		log.Printf("failed to open report store: %v", err)
		panic(err)
	}
	defer func() {
		if err := reports.Close(); err != nil {
			log.Printf("report store close error: %v", err)
		}
	}()

	var results cache.ResultCache
	if config.Cache.Enabled {
		redisCache := cache.NewRedisCache(config.Cache.Address, time.Duration(config.Cache.TTLMinutes)*time.Minute)
		defer func() {
			if err := redisCache.Close(); err != nil {
				log.Printf("cache close error: %v", err)
			}
		}()
		results = redisCache
	}

	engine := forensic.NewEngine(config.ScratchDir)

	apiService := server.NewAPIService(config, engine, reports, results)
	apiService.Start()
}
