package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/usecase"
	"github.com/tridentdigital/zalo-inventory-bot/internal/conf"
	"github.com/tridentdigital/zalo-inventory-bot/internal/data"
)

func rotateKeyCmd() *cobra.Command {
	var newKey string

	cmd := &cobra.Command{
		Use:   "rotate-key",
		Short: "Re-encrypt the stored Zalo tokens under a new TOKEN_ENCRYPTION_KEY",
		RunE: func(cmd *cobra.Command, args []string) error {
			if newKey == "" {
				newKey = os.Getenv("NEW_TOKEN_ENCRYPTION_KEY")
			}
			if newKey == "" {
				return errors.New("--new-key or NEW_TOKEN_ENCRYPTION_KEY is required")
			}

			cfg := conf.LoadFromEnv()
			if cfg.Credential.EncryptionKey == "" {
				return errors.New("TOKEN_ENCRYPTION_KEY is required")
			}

			store, err := data.NewCredentialRepo(cfg.Credential.TokenFile, cfg.Credential.EncryptionKey, newLogger())
			if err != nil {
				return err
			}
			if err := store.RotateKey(cmd.Context(), newKey); err != nil {
				return err
			}
			fmt.Printf("Rotated %s. Set TOKEN_ENCRYPTION_KEY to the new key before restarting.\n", cfg.Credential.TokenFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&newKey, "new-key", "", "new encryption passphrase")
	return cmd
}

func signCmd() *cobra.Command {
	var secret string

	cmd := &cobra.Command{
		Use:   "sign [file]",
		Short: "Print the X-Webhook-Signature for a payload (stdin when no file)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = conf.LoadFromEnv().Server.WebhookSecret
			}
			if secret == "" {
				return errors.New("--secret or WEBHOOK_SECRET is required")
			}

			var (
				body []byte
				err  error
			)
			if len(args) == 1 {
				body, err = os.ReadFile(args[0])
			} else {
				body, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), usecase.Sign(body, secret))
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "webhook secret (default: WEBHOOK_SECRET)")
	return cmd
}
