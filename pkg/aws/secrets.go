package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretsAPI is the subset of *secretsmanager.Client used here.
type SecretsAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsClient reads secrets once and keeps them for the process lifetime.
// A secret stored as a key/value JSON object (the console's default format)
// resolves to the entry named after the last path segment, so
// "product-admin/FLASH_SECRET" can be either a plain string or
// {"FLASH_SECRET": "..."}.
type SecretsClient struct {
	api   SecretsAPI
	mu    sync.Mutex
	cache map[string]string
}

func NewSecretsClient(cfg sdkaws.Config) *SecretsClient {
	return NewSecretsClientWithAPI(secretsmanager.NewFromConfig(cfg))
}

func NewSecretsClientWithAPI(api SecretsAPI) *SecretsClient {
	return &SecretsClient{api: api, cache: map[string]string{}}
}

func (s *SecretsClient) GetSecret(ctx context.Context, name string) (string, error) {
	s.mu.Lock()
	v, ok := s.cache[name]
	s.mu.Unlock()
	if ok {
		return v, nil
	}

	out, err := s.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: sdkaws.String(name)})
	if err != nil {
		return "", fmt.Errorf("failed to get secret %s: %w", name, err)
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", name)
	}

	v, err = unwrapSecret(name, *out.SecretString)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.cache[name] = v
	s.mu.Unlock()
	return v, nil
}

func unwrapSecret(name, raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") {
		return raw, nil
	}
	var kv map[string]string
	if err := json.Unmarshal([]byte(trimmed), &kv); err != nil {
		return raw, nil
	}
	key := name[strings.LastIndex(name, "/")+1:]
	v, ok := kv[key]
	if !ok {
		return "", fmt.Errorf("secret %s has no %q entry", name, key)
	}
	return v, nil
}
