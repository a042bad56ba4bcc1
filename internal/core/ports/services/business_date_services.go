package services

import (
	"context"
	"time"
)

// BusinessDateSvc supplies the current business date.
type BusinessDateSvc interface {
	// Today returns the business date at midnight UTC.
	Today(ctx context.Context) time.Time
}
