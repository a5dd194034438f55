package dispatch

import (
	"context"

	"rates-updater/internal/datastructs"
)

// Sender delivers one set of rates and reports the HTTP status it got back.
type Sender interface {
	SendRates(ctx context.Context, rates datastructs.RateMapping) (int, error)
}
