// Package payments creates Mercado Pago checkout links for unpaid
// appointments. Payment records themselves are plain rows; the link is a
// convenience for trainers who collect online.
package payments

import (
	"context"
	"fmt"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preference"
)

type CheckoutLink struct {
	PreferenceID string `json:"preference_id"`
	URL          string `json:"url"`
}

type LinkProvider struct {
	client preference.Client
}

// NewLinkProvider returns nil when no access token is configured; callers
// treat a nil provider as "online payments disabled".
func NewLinkProvider(accessToken string) (*LinkProvider, error) {
	if accessToken == "" {
		return nil, nil
	}

	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init mercadopago: %w", err)
	}

	return &LinkProvider{client: preference.NewClient(cfg)}, nil
}

// CreateLink builds a single-item checkout preference for the appointment.
// Amount is in cents.
func (p *LinkProvider) CreateLink(
	ctx context.Context,
	appointmentID uint,
	title string,
	amountCents int64,
) (*CheckoutLink, error) {

	req := preference.Request{
		Items: []preference.ItemRequest{
			{
				Title:     title,
				Quantity:  1,
				UnitPrice: float64(amountCents) / 100,
			},
		},
		ExternalReference: fmt.Sprint(appointmentID),
	}

	resp, err := p.client.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create preference: %w", err)
	}

	return &CheckoutLink{
		PreferenceID: resp.ID,
		URL:          resp.InitPoint,
	}, nil
}
