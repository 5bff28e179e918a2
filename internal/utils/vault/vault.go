package vault

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

const defaultServiceAccountTokenPath = "/var/run/secrets/kubernetes.io/serviceaccount/token"

// VaultClient reads secrets from a Vault KV v2 mount after a Kubernetes login.
type VaultClient struct {
	client       *resty.Client
	kvSecretPath string
	role         string
	tokenPath    string
	token        string
}

type loginResponse struct {
	Auth *struct {
		ClientToken string `json:"client_token"`
	} `json:"auth"`
}

type kvResponse struct {
	Data *struct {
		Data map[string]interface{} `json:"data"`
	} `json:"data"`
}

type errorResponse struct {
	Errors []string `json:"errors"`
}

// New logs in to Vault with the pod's service account token.
func New(addr, kvSecretPath, role string) (*VaultClient, error) {
	return newWithTokenPath(addr, kvSecretPath, role, defaultServiceAccountTokenPath)
}

func newWithTokenPath(addr, kvSecretPath, role, tokenPath string) (*VaultClient, error) {
	vc := &VaultClient{
		client:       resty.New().SetBaseURL(strings.TrimRight(addr, "/")),
		kvSecretPath: strings.Trim(kvSecretPath, "/"),
		role:         role,
		tokenPath:    tokenPath,
	}

	token, err := vc.login()
	if err != nil {
		return nil, err
	}
	vc.token = token
	return vc, nil
}

func (vc *VaultClient) login() (string, error) {
	k8sToken, err := os.ReadFile(vc.tokenPath)
	if err != nil {
		return "", errors.Wrap(err, "read service account token")
	}

	var result loginResponse
	var failure errorResponse
	resp, err := vc.client.R().
		SetBody(map[string]string{
			"jwt":  strings.TrimSpace(string(k8sToken)),
			"role": vc.role,
		}).
		SetResult(&result).
		SetError(&failure).
		Post("/v1/auth/kubernetes/login")
	if err != nil {
		return "", errors.Wrap(err, "vault login")
	}
	if resp.IsError() {
		return "", fmt.Errorf("vault authentication failed with status %d: %v", resp.StatusCode(), failure.Errors)
	}
	if result.Auth == nil || result.Auth.ClientToken == "" {
		return "", errors.New("vault returned empty client_token")
	}

	return result.Auth.ClientToken, nil
}

// GetKV returns secretKey from the configured KV v2 path.
func (vc *VaultClient) GetKV(secretKey string) (string, error) {
	var result kvResponse
	var failure errorResponse
	resp, err := vc.client.R().
		SetHeader("X-Vault-Token", vc.token).
		SetResult(&result).
		SetError(&failure).
		Get("/v1/" + vc.kvSecretPath)
	if err != nil {
		return "", errors.Wrap(err, "vault kv get")
	}
	if resp.IsError() {
		return "", fmt.Errorf("vault KV get failed with status %d: %v", resp.StatusCode(), failure.Errors)
	}
	if result.Data == nil || result.Data.Data == nil {
		return "", errors.New("vault response missing nested 'data' field")
	}

	value, exists := result.Data.Data[secretKey]
	if !exists {
		return "", fmt.Errorf("secret key '%s' not found", secretKey)
	}
	secret, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("secret value for key '%s' is not a string", secretKey)
	}

	return secret, nil
}
