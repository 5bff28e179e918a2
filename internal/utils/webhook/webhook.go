package webhook

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/dwarvesf/justthetip/internal/model"
	"github.com/dwarvesf/justthetip/internal/utils/logger"
)

const (
	colorPending  = 0xF1C40F
	colorProposal = 0x3498DB
)

// INotifier posts admin-facing notices. Delivery is best effort.
type INotifier interface {
	NotifyPendingWithdrawal(ctx context.Context, withdrawal *model.WithdrawalRequest)
	NotifyProposalCreated(ctx context.Context, proposal *model.MultiSigProposal)
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type embed struct {
	Title     string       `json:"title"`
	Color     int          `json:"color"`
	Fields    []embedField `json:"fields"`
	Timestamp string       `json:"timestamp"`
}

type payload struct {
	Username string  `json:"username,omitempty"`
	Embeds   []embed `json:"embeds"`
}

// Client posts Discord webhook embeds to the admin channel.
type Client struct {
	client     *resty.Client
	webhookURL string
	logger     *logger.Logger
}

// New returns a client that does nothing when webhookURL is empty.
func New(webhookURL string, logger *logger.Logger) *Client {
	return &Client{
		client:     resty.New().SetTimeout(10 * time.Second),
		webhookURL: webhookURL,
		logger:     logger,
	}
}

func (c *Client) NotifyPendingWithdrawal(ctx context.Context, w *model.WithdrawalRequest) {
	c.send(ctx, embed{
		Title: "Withdrawal awaiting approval",
		Color: colorPending,
		Fields: []embedField{
			{Name: "ID", Value: w.ID},
			{Name: "User", Value: fmt.Sprintf("%s (%s)", w.Username, w.UserID), Inline: true},
			{Name: "Amount", Value: fmt.Sprintf("%s %s", w.AmountValue().ToDecimal().String(), w.Currency), Inline: true},
			{Name: "To", Value: w.ToAddress},
			{Name: "Expires", Value: w.ExpiresAt.UTC().Format(time.RFC3339)},
		},
		Timestamp: w.RequestedAt.UTC().Format(time.RFC3339),
	})
}

func (c *Client) NotifyProposalCreated(ctx context.Context, p *model.MultiSigProposal) {
	c.send(ctx, embed{
		Title: "Multisig proposal created",
		Color: colorProposal,
		Fields: []embedField{
			{Name: "ID", Value: p.ID},
			{Name: "Vault", Value: p.MultisigAddress},
			{Name: "Amount", Value: fmt.Sprintf("%s %s", p.TransactionData.AmountValue().ToDecimal().String(), p.TransactionData.Currency), Inline: true},
			{Name: "Approvals", Value: fmt.Sprintf("%d/%d", len(p.Approvals), p.RequiredApprovals), Inline: true},
			{Name: "Recipient", Value: p.TransactionData.Recipient},
		},
		Timestamp: p.CreatedAt.UTC().Format(time.RFC3339),
	})
}

func (c *Client) send(ctx context.Context, e embed) {
	if c.webhookURL == "" {
		return
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(payload{Username: "JustTheTip", Embeds: []embed{e}}).
		Post(c.webhookURL)
	if err != nil {
		c.logger.Error("[Webhook][Send] failed to call admin webhook", map[string]string{
			"title": e.Title,
			"error": err.Error(),
		})
		return
	}
	if resp.IsError() {
		c.logger.Error("[Webhook][Send] admin webhook rejected notice", map[string]string{
			"title":       e.Title,
			"status_code": resp.Status(),
		})
		return
	}

	c.logger.Debug("[Webhook][Send] admin notified", map[string]string{
		"title": e.Title,
	})
}
