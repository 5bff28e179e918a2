package executor

import (
	"context"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/dwarvesf/justthetip/internal/model"
	"github.com/dwarvesf/justthetip/internal/utils/config"
	"github.com/dwarvesf/justthetip/internal/utils/logger"
)

type signer struct {
	client *resty.Client
	logger *logger.Logger
}

func New(cfg *config.AppConfig, logger *logger.Logger) IExecutor {
	client := resty.New().
		SetBaseURL(cfg.Signer.APIURL).
		SetTimeout(cfg.Signer.Timeout).
		SetHeader("Content-Type", "application/json")
	if cfg.Signer.APIToken != "" {
		client.SetAuthToken(cfg.Signer.APIToken)
	}

	return &signer{
		client: client,
		logger: logger,
	}
}

func (s *signer) Execute(ctx context.Context, instruction model.TransferInstruction) (string, error) {
	var (
		result  transferResponse
		failure errorResponse
	)

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Idempotency-Key", instruction.Reference).
		SetBody(instruction).
		SetResult(&result).
		SetError(&failure).
		Post("/v1/transfers")
	if err != nil {
		s.logger.Error("[signer.Execute][Post] request failed", map[string]string{
			"reference": instruction.Reference,
			"error":     err.Error(),
		})
		return "", errors.Wrap(err, "signer request")
	}

	if resp.IsError() {
		msg := failure.Message
		if msg == "" {
			msg = failure.Error
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode())
		}
		s.logger.Error("[signer.Execute] signer rejected transfer", map[string]string{
			"reference":   instruction.Reference,
			"status_code": resp.Status(),
			"message":     msg,
		})
		return "", &SignerError{StatusCode: resp.StatusCode(), Message: msg}
	}

	if result.Signature == "" {
		return "", errors.New("signer returned an empty signature")
	}

	s.logger.Info("[signer.Execute] transfer submitted", map[string]string{
		"reference": instruction.Reference,
		"currency":  instruction.Currency,
		"signature": result.Signature,
	})
	return result.Signature, nil
}

func (s *signer) Ping(ctx context.Context) error {
	resp, err := s.client.R().SetContext(ctx).Get("/healthz")
	if err != nil {
		return errors.Wrap(err, "signer ping")
	}
	if resp.IsError() {
		return &SignerError{StatusCode: resp.StatusCode(), Message: "health check failed"}
	}
	return nil
}
