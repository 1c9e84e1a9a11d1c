package keys

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// VaultConfig locates the key set in a Vault KV v2 secrets engine.
//
// Expected secret structure at SecretPath:
//
//	{
//	  "current-key-id": "key-2025-12",
//	  "keys": {
//	    "key-2025-12": "base64 32-byte key",
//	    "key-2024-12": "older key kept for decryption"
//	  }
//	}
type VaultConfig struct {
	Address    string
	Token      string
	SecretPath string

	// HTTPClient overrides the client used for the single startup fetch.
	HTTPClient *http.Client
}

// vaultSecret mirrors the KV v2 read response envelope.
type vaultSecret struct {
	Data struct {
		Data struct {
			CurrentKeyID string            `json:"current-key-id"`
			Keys         map[string]string `json:"keys"`
		} `json:"data"`
	} `json:"data"`
}

// NewVault fetches the key set from Vault once and caches it in an immutable
// Static provider. Rotation means writing a new secret version and restarting;
// the running process never re-reads Vault.
func NewVault(ctx context.Context, cfg VaultConfig) (*Static, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("%w: vault address not configured", ErrUnavailable)
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("%w: vault token not configured", ErrUnavailable)
	}
	if cfg.SecretPath == "" {
		return nil, fmt.Errorf("%w: vault secret path not configured", ErrUnavailable)
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	endpoint, err := url.JoinPath(cfg.Address, "v1", strings.TrimPrefix(cfg.SecretPath, "/"))
	if err != nil {
		return nil, fmt.Errorf("building vault URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building vault request: %w", err)
	}
	req.Header.Set("X-Vault-Token", cfg.Token)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: vault request failed: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: vault returned status %d for %s", ErrUnavailable, resp.StatusCode, cfg.SecretPath)
	}

	var secret vaultSecret
	if err := json.NewDecoder(resp.Body).Decode(&secret); err != nil {
		return nil, fmt.Errorf("decoding vault secret: %w", err)
	}

	return NewStatic(secret.Data.Data.CurrentKeyID, secret.Data.Data.Keys)
}
