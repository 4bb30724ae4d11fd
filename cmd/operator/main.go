package main

import (
	"log"
	"os"
	"textcompare-api/internal/db"
	"textcompare-api/internal/repository"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// app bundles the repositories the operator commands write through. The CLI
// shares the gateway's storage layer but runs as a separate process.
type app struct {
	users       repository.UserRepository
	apiKeys     repository.APIKeyRepository
	typeConfigs repository.TypeConfigRepository
	subs        repository.SubscriptionRepository
	usage       repository.UsageRepository
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "operator",
		Short:         "Operator CLI: manage users, type configs, API keys, quotas and subscriptions",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	a, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newUserCmd(a),
		newTypeConfigCmd(a),
		newKeyCmd(a),
		newQuotaCmd(a),
		newSubscriptionCmd(a),
	)

	return rootCmd
}

func wireApp() (*app, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	database, err := db.Connect(os.Getenv("DATABASE_URL"))
	if err != nil {
		return nil, err
	}

	return &app{
		users:       repository.NewUserRepository(database),
		apiKeys:     repository.NewAPIKeyRepository(database),
		typeConfigs: repository.NewTypeConfigRepository(database),
		subs:        repository.NewSubscriptionRepository(database),
		usage:       repository.NewUsageRepository(database),
	}, nil
}
