package webhook

import (
	"context"

	"github.com/Vovarama1992/tanky/internal/ports"
)

// Sender delivers one record to the external endpoint.
type Sender interface {
	Send(ctx context.Context, rec ports.LogRecord) error
}
