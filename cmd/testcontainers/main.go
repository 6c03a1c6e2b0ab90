package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/localnerve/realty-admin/internal/testenv"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show this help message")

	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	flag.Parse()

	usage := `
Run the console's backing services (MariaDB, MinIO, Authorizer) in containers
with the environment variables from the .env file.

Usage:

testcontainers [-h] [-f ENV_FILE_PATH]

ENV_FILE_PATH: path to the .env file

Set ADMIN_EMAIL to sign up that address with the admin role.

example
  testcontainers -f /path/to/something/.env
`
	// if -h flag print usage and return
	if showHelp {
		fmt.Println(usage)
		return
	}

	if envFilename != "" {
		log.Printf("Loading environment variables from %s\n", envFilename)
		if err := godotenv.Load(envFilename); err != nil {
			log.Fatalf("Failed to load environment variables: %v\n", err)
		}
	} else {
		log.Printf("No environment file specified, using current environment variables\n")
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGTSTP, syscall.SIGQUIT)

	started := make(chan *testenv.Containers, 1)
	go func() {
		containers, err := testenv.StartAll(context.Background(), nil)
		if err != nil {
			log.Fatalf("Failed to create test containers: %v\n", err)
		}
		cfg := containers.Config()
		log.Printf("Console environment:\n  DB_TYPE=%s\n  DB_HOST=%s\n  DB_PORT=%s\n  AUTHZ_URL=%s\n  STORAGE_ENDPOINT=%s\n",
			cfg.DBType, cfg.DBHost, cfg.DBPort, cfg.AuthzURL, cfg.StorageEndpoint)
		if email := os.Getenv("ADMIN_EMAIL"); email != "" {
			if err := testenv.SeedAccount(cfg.AuthzURL, cfg.AuthzClientID, email, []string{"admin"}); err != nil {
				log.Printf("Failed to seed admin account: %v\n", err)
			} else {
				log.Printf("Admin account %s is ready for magic link login\n", email)
			}
		}
		started <- containers
	}()

	sig := <-sigs
	log.Printf("\nReceived signal: %v, terminating test containers...\n", sig)
	select {
	case containers := <-started:
		containers.Terminate(nil)
	default:
	}
}
