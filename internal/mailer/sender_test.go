package mailer

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/lledoind/aerotools/config"
)

func testRequest() QuoteRequest {
	return QuoteRequest{
		Company: "Heli Services SA",
		Name:    "Jean Dupont",
		Email:   "jean@example.com",
		Lines: []QuoteRequestLine{
			{ID: "br-h125", Name: "Barre de remorquage H125", Category: "towing",
				Quantity: 2, PriceDisplay: "SUR DEVIS"},
		},
	}
}

func TestSendQuoteRequestReportsDelivery(t *testing.T) {
	s := NewSender(config.MailConfig{Enabled: true})
	defer s.Release()
	s.send = func(m *gomail.Message) error { return nil }

	outcome := make(chan bool, 1)
	s.SendQuoteRequest(testRequest(), func(delivered bool) { outcome <- delivered })

	select {
	case delivered := <-outcome:
		assert.True(t, delivered)
	case <-time.After(2 * time.Second):
		t.Fatal("delivery outcome never reported")
	}
}

func TestSendQuoteRequestReportsFailure(t *testing.T) {
	s := NewSender(config.MailConfig{Enabled: true})
	defer s.Release()
	s.send = func(m *gomail.Message) error { return errors.New("smtp unreachable") }

	outcome := make(chan bool, 1)
	s.SendQuoteRequest(testRequest(), func(delivered bool) { outcome <- delivered })

	select {
	case delivered := <-outcome:
		assert.False(t, delivered, "a failed send must not be reported as delivered")
	case <-time.After(2 * time.Second):
		t.Fatal("delivery outcome never reported")
	}
}

func TestSendQuoteRequestDisabledSkipsDelivery(t *testing.T) {
	s := NewSender(config.MailConfig{Enabled: false})
	defer s.Release()
	s.send = func(m *gomail.Message) error {
		t.Error("disabled sender must not deliver")
		return nil
	}

	called := make(chan bool, 1)
	s.SendQuoteRequest(testRequest(), func(delivered bool) { called <- delivered })

	select {
	case <-called:
		t.Fatal("outcome callback invoked with mail disabled")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRenderBody(t *testing.T) {
	req := testRequest()
	req.Phone = "+33 4 00 00 00 00"
	req.Message = "Livraison sous 3 semaines si possible"

	body := renderBody(req)
	require.Contains(t, body, "Heli Services SA")
	assert.Contains(t, body, "Jean Dupont")
	assert.Contains(t, body, "+33 4 00 00 00 00")
	assert.Contains(t, body, "Livraison sous 3 semaines")
	assert.Contains(t, body, "Barre de remorquage H125 x2")
}
