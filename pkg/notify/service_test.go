package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/creatorpay/checkout/pkg/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingClient struct {
	messages []Message
	err      error
}

func (c *capturingClient) SendMessage(_ context.Context, msg Message) error {
	c.messages = append(c.messages, msg)
	return c.err
}

func TestPaymentConfirmed_FormatsMessage(t *testing.T) {
	client := &capturingClient{}
	svc := NewService(client)

	err := svc.PaymentConfirmed(context.Background(), webhook.PaymentConfirmation{
		SessionID:       "cs_test_1",
		CustomerEmail:   "maria@example.com",
		Amount:          77.92,
		Currency:        "usd",
		ProfileUsername: "maria",
		PlanMonths:      "12",
	})

	require.NoError(t, err)
	require.Len(t, client.messages, 1)
	text := client.messages[0].Text
	assert.Contains(t, text, "Payment Confirmed")
	assert.Contains(t, text, "maria")
	assert.Contains(t, text, "77.92 USD")
	assert.Contains(t, text, "cs_test_1")
}

func TestPaymentConfirmed_DisabledWithoutClient(t *testing.T) {
	svc := NewService(nil)

	assert.False(t, svc.IsEnabled())
	assert.NoError(t, svc.PaymentConfirmed(context.Background(), webhook.PaymentConfirmation{}))
}

func TestPaymentConfirmed_PropagatesSendFailure(t *testing.T) {
	client := &capturingClient{err: errors.New("webhook rejected")}
	svc := NewService(client)

	err := svc.PaymentConfirmed(context.Background(), webhook.PaymentConfirmation{SessionID: "cs_1"})
	assert.Error(t, err)
}

func TestSendMessage_RequiresURL(t *testing.T) {
	client := NewWebhookClient("")
	err := client.SendMessage(context.Background(), Message{Text: "hi"})
	assert.Error(t, err)
}
