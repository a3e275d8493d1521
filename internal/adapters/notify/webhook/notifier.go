// Package webhook entrega eventos como POST JSON a la URL del sistema de
// notificaciones. La entrega es best-effort: el colaborador tolera
// duplicados y el engine nunca bloquea una operación por un aviso fallido.
package webhook

import (
	"context"
	"net/http"
	"time"

	"profile-visibility/internal/platform/httpclient"
	"profile-visibility/internal/ports/notify"
)

type Notifier struct {
	client *httpclient.Client
	url    string
}

func New(url string, timeout time.Duration) *Notifier {
	return &Notifier{
		client: httpclient.New(timeout),
		url:    url,
	}
}

// NewWithTransport permite inyectar un RoundTripper en tests.
func NewWithTransport(url string, timeout time.Duration, tr http.RoundTripper) *Notifier {
	return &Notifier{
		client: httpclient.NewWithTransport(timeout, tr),
		url:    url,
	}
}

func (n *Notifier) Publish(ctx context.Context, ev notify.Event) error {
	return n.client.DoJSON(ctx, http.MethodPost, n.url, nil, ev, nil)
}
