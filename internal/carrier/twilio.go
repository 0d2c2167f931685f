package carrier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	api "github.com/twilio/twilio-go/rest/api/v2010"

	"lewis.chat/gateway/core/config"
	"lewis.chat/gateway/internal/model"
)

type twilioGateway struct {
	client *twilio.RestClient
	from   model.Address
}

// NewTwilioGateway creates a Gateway backed by the Twilio REST API.
func NewTwilioGateway(cfg config.TwilioConfig) (Gateway, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.PhoneNumber == "" {
		return nil, fmt.Errorf("missing twilio credentials")
	}

	from := model.ParseAddress(cfg.PhoneNumber)
	if !from.Valid() {
		return nil, fmt.Errorf("TWILIO_PHONE_NUMBER %q is not E.164", cfg.PhoneNumber)
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})

	return &twilioGateway{client: client, from: from}, nil
}

func (g *twilioGateway) Deliver(ctx context.Context, to model.Address, text string, media *model.MediaRef) (Receipt, error) {
	if !to.Valid() {
		return Receipt{}, fmt.Errorf("%w: %q", ErrInvalidAddress, to.Number)
	}

	// The sender number always mirrors the destination's channel tag:
	// whatsapp destinations get a whatsapp-prefixed sender.
	from := g.from.OnChannel(to.Channel)

	params := &api.CreateMessageParams{}
	params.SetTo(to.String())
	params.SetFrom(from.String())
	params.SetBody(text)
	if media != nil {
		params.SetMediaUrl([]string{media.URL})
	}

	resp, err := g.client.Api.CreateMessage(params)
	if err != nil {
		return Receipt{}, classify(err)
	}

	receipt := Receipt{From: from.String()}
	if resp.Sid != nil {
		receipt.SID = *resp.Sid
	}
	if resp.Status != nil {
		receipt.Status = *resp.Status
	}

	slog.InfoContext(ctx, "message delivered",
		"sid", receipt.SID,
		"status", receipt.Status,
		"channel", string(to.Channel))

	return receipt, nil
}

func (g *twilioGateway) MessageStatus(ctx context.Context, sid string) (StatusReport, error) {
	msg, err := g.client.Api.FetchMessage(sid, &api.FetchMessageParams{})
	if err != nil {
		return StatusReport{}, classify(err)
	}

	report := StatusReport{
		ErrorCode:    msg.ErrorCode,
		ErrorMessage: msg.ErrorMessage,
	}
	if msg.Status != nil {
		report.Status = *msg.Status
	}
	return report, nil
}

func (g *twilioGateway) AccountBalance(ctx context.Context) (Balance, error) {
	bal, err := g.client.Api.FetchBalance(&api.FetchBalanceParams{})
	if err != nil {
		return Balance{}, classify(err)
	}

	var out Balance
	if bal.Balance != nil {
		out.Amount = *bal.Balance
	}
	if bal.Currency != nil {
		out.Currency = *bal.Currency
	}
	return out, nil
}

// classify maps Twilio REST errors onto the gateway's failure taxonomy.
func classify(err error) error {
	var restErr *twilioclient.TwilioRestError
	if errors.As(err, &restErr) {
		switch {
		case restErr.Status == 401 || restErr.Status == 403:
			return fmt.Errorf("%w: %v", ErrAuth, err)
		case restErr.Status == 400 || restErr.Status == 404:
			// Twilio reports unroutable/malformed numbers as 400s
			return fmt.Errorf("%w: %v", ErrInvalidAddress, err)
		}
	}
	return fmt.Errorf("%w: %v", ErrTransient, err)
}
