package notification

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"
)

// ErrSubscriptionGone reports an endpoint the push service says no longer
// exists (HTTP 410); the dispatcher prunes it.
var ErrSubscriptionGone = errors.New("push subscription gone")

// Pusher delivers one web-push payload to one subscription.
type Pusher interface {
	Send(ctx context.Context, sub PushSubscription, payload []byte) error
}

type webPusher struct {
	options webpush.Options
}

// NewWebPusher builds a Pusher signing with the given VAPID key pair.
func NewWebPusher(subject, publicKey, privateKey string) Pusher {
	return &webPusher{
		options: webpush.Options{
			Subscriber:      subject,
			VAPIDPublicKey:  publicKey,
			VAPIDPrivateKey: privateKey,
			TTL:             int((12 * time.Hour).Seconds()),
		},
	}
}

func (p *webPusher) Send(ctx context.Context, sub PushSubscription, payload []byte) error {
	opts := p.options
	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}, &opts)
	if err != nil {
		return fmt.Errorf("push to %s: %v: %w", sub.Endpoint, err, ErrDeliveryFailed)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusGone:
		return ErrSubscriptionGone
	case resp.StatusCode >= 400:
		return fmt.Errorf("push to %s: status %d: %w", sub.Endpoint, resp.StatusCode, ErrDeliveryFailed)
	}
	return nil
}
