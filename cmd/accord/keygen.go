package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/identropy/accord/pkg/keys"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a fresh base64-encoded AES-256 history encryption key",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw := make([]byte, keys.KeySize)
		if _, err := rand.Read(raw); err != nil {
			return fmt.Errorf("failed to generate key material: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), base64.StdEncoding.EncodeToString(raw))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(keygenCmd)
}
