package vault

import (
	"context"
	"fmt"

	"github.com/hashicorp/vault/api"
	"go.uber.org/zap"
)

type SecretManager struct {
	client *api.Client
	log    *zap.Logger
}

func NewSecretManager(address, token string, log *zap.Logger) (*SecretManager, error) {
	config := api.DefaultConfig()
	config.Address = address

	client, err := api.NewClient(config)
	if err != nil {
		return nil, err
	}

	client.SetToken(token)

	return &SecretManager{client: client, log: log}, nil
}

// ReadSecrets returns the string values stored at a KV v2 path such as
// "secret/data/converse". Non-string values are skipped.
func (sm *SecretManager) ReadSecrets(ctx context.Context, path string) (map[string]string, error) {
	secret, err := sm.client.Logical().ReadWithContext(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read secret %s: %w", path, err)
	}
	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("no secret found at %s", path)
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("secret %s is not a KV v2 entry", path)
	}

	values := make(map[string]string, len(data))
	for key, raw := range data {
		value, ok := raw.(string)
		if !ok {
			sm.log.Warn("Ignoring non-string secret value", zap.String("path", path), zap.String("key", key))
			continue
		}
		values[key] = value
	}

	sm.log.Info("Secrets loaded from Vault", zap.String("path", path), zap.Int("keys", len(values)))
	return values, nil
}
