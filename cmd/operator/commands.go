package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"textcompare-api/internal/models"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

func newUserCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	var email, password, name string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a user account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}

			user := &models.User{
				Email:        email,
				Name:         name,
				PasswordHash: string(hashed),
			}
			if err := a.users.Create(cmd.Context(), user); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "user %s created (%s)\n", user.ID, user.Email)
			return nil
		},
	}
	create.Flags().StringVar(&email, "email", "", "user email")
	create.Flags().StringVar(&password, "password", "", "user password")
	create.Flags().StringVar(&name, "name", "", "display name")
	create.MarkFlagRequired("email")
	create.MarkFlagRequired("password")

	cmd.AddCommand(create)
	return cmd
}

func newTypeConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "typeconfig",
		Short: "Manage model configurations",
	}

	var scale, system, userPrompt, model, provider, description string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a model configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := &models.TypeConfig{
				Scale:        scale,
				SystemPrompt: system,
				UserPrompt:   userPrompt,
				Model:        model,
				Provider:     models.Provider(provider),
				Description:  description,
			}
			if err := a.typeConfigs.Create(cmd.Context(), cfg); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "typeconfig %s created (%s/%s)\n", cfg.ID, cfg.Provider, cfg.Model)
			return nil
		},
	}
	create.Flags().StringVar(&scale, "scale", "", "similarity scale")
	create.Flags().StringVar(&system, "system", "", "system prompt prefix")
	create.Flags().StringVar(&userPrompt, "user-prompt", "", "user prompt prefix")
	create.Flags().StringVar(&model, "model", "", "model name")
	create.Flags().StringVar(&provider, "provider", "", "LLM provider (openai, gemini)")
	create.Flags().StringVar(&description, "description", "", "description")
	create.MarkFlagRequired("scale")
	create.MarkFlagRequired("system")
	create.MarkFlagRequired("user-prompt")
	create.MarkFlagRequired("model")
	create.MarkFlagRequired("provider")

	cmd.AddCommand(create)
	return cmd
}

func newKeyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage API keys",
	}

	var userEmail, typeConfigID, llmAPIKey string
	var tokens, limit int
	create := &cobra.Command{
		Use:   "create",
		Short: "Issue an API key bound to a type config",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := a.users.GetByEmail(cmd.Context(), userEmail)
			if err != nil {
				return err
			}

			cfgID, err := uuid.Parse(typeConfigID)
			if err != nil {
				return fmt.Errorf("invalid typeconfig id: %w", err)
			}
			if _, err := a.typeConfigs.GetByID(cmd.Context(), cfgID); err != nil {
				return err
			}

			secret, err := generateSecret()
			if err != nil {
				return err
			}

			apiKey := &models.APIKey{
				UserID:          user.ID,
				Key:             uuid.NewString(),
				SecretKey:       secret,
				TypeConfigID:    cfgID,
				LLMAPIKey:       llmAPIKey,
				TokensRemaining: tokens,
				TokenLimit:      limit,
				Status:          models.APIKeyActive,
			}
			if err := a.apiKeys.Create(cmd.Context(), apiKey); err != nil {
				return err
			}

			subscription := &models.Subscription{
				APIKeyID:  apiKey.ID,
				PlanType:  models.FreePlan,
				StartDate: time.Now(),
				Status:    "active",
			}
			if err := a.subs.Create(cmd.Context(), subscription); err != nil {
				return err
			}

			a.audit(apiKey.Key, "key.create", "API key issued")

			// The secret is shown exactly once and never serialized again.
			fmt.Fprintf(cmd.OutOrStdout(), "api_key:    %s\n", apiKey.Key)
			fmt.Fprintf(cmd.OutOrStdout(), "secret_key: %s\n", apiKey.SecretKey)
			return nil
		},
	}
	create.Flags().StringVar(&userEmail, "user", "", "owner email")
	create.Flags().StringVar(&typeConfigID, "typeconfig", "", "type config id")
	create.Flags().StringVar(&llmAPIKey, "llm-api-key", "", "upstream provider API key")
	create.Flags().IntVar(&tokens, "tokens", 10000, "initial token balance")
	create.Flags().IntVar(&limit, "limit", 10000, "token limit")
	create.MarkFlagRequired("user")
	create.MarkFlagRequired("typeconfig")
	create.MarkFlagRequired("llm-api-key")

	var revokeKey string
	revoke := &cobra.Command{
		Use:   "revoke",
		Short: "Deactivate an API key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.apiKeys.Deactivate(cmd.Context(), revokeKey); err != nil {
				return err
			}
			a.audit(revokeKey, "key.revoke", "API key deactivated")
			fmt.Fprintf(cmd.OutOrStdout(), "key %s revoked\n", revokeKey)
			return nil
		},
	}
	revoke.Flags().StringVar(&revokeKey, "key", "", "api key to revoke")
	revoke.MarkFlagRequired("key")

	cmd.AddCommand(create, revoke)
	return cmd
}

func newQuotaCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quota",
		Short: "Manage token quotas",
	}

	var key string
	var tokens, limit int
	replenish := &cobra.Command{
		Use:   "replenish",
		Short: "Credit tokens to a key's balance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var newLimit *int
			if cmd.Flags().Changed("limit") {
				newLimit = &limit
			}

			if err := a.apiKeys.Credit(cmd.Context(), key, tokens, newLimit); err != nil {
				return err
			}
			a.audit(key, "quota.replenish", fmt.Sprintf("credited %d tokens", tokens))
			fmt.Fprintf(cmd.OutOrStdout(), "key %s credited %d tokens\n", key, tokens)
			return nil
		},
	}
	replenish.Flags().StringVar(&key, "key", "", "api key")
	replenish.Flags().IntVar(&tokens, "tokens", 0, "tokens to credit")
	replenish.Flags().IntVar(&limit, "limit", 0, "new token limit")
	replenish.MarkFlagRequired("key")
	replenish.MarkFlagRequired("tokens")

	cmd.AddCommand(replenish)
	return cmd
}

func newSubscriptionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subscription",
		Short: "Manage subscriptions",
	}

	var key, plan string
	var months int
	renew := &cobra.Command{
		Use:   "renew",
		Short: "Renew a key's subscription",
		RunE: func(cmd *cobra.Command, _ []string) error {
			apiKey, err := a.apiKeys.GetByKey(cmd.Context(), key)
			if err != nil {
				return err
			}

			endDate := time.Now().AddDate(0, months, 0)
			if err := a.subs.Renew(cmd.Context(), apiKey.ID, models.SubscriptionPlan(plan), endDate); err != nil {
				return err
			}
			a.audit(key, "subscription.renew", fmt.Sprintf("renewed %s until %s", plan, endDate.Format(time.DateOnly)))
			fmt.Fprintf(cmd.OutOrStdout(), "subscription for %s renewed until %s\n", key, endDate.Format(time.DateOnly))
			return nil
		},
	}
	renew.Flags().StringVar(&key, "key", "", "api key")
	renew.Flags().StringVar(&plan, "plan", string(models.FreePlan), "plan type (FREE, PRO, ENTERPRISE)")
	renew.Flags().IntVar(&months, "months", 1, "months to extend")
	renew.MarkFlagRequired("key")

	cmd.AddCommand(renew)
	return cmd
}

func (a *app) audit(apiKey, action, detail string) {
	_ = a.usage.AppendLog(&models.UsageLog{
		APIKeyID:  apiKey,
		Action:    action,
		Status:    models.StatusSuccess,
		Detail:    detail,
		Timestamp: time.Now(),
	})
}

func generateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
