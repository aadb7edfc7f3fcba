package subscription

import (
	"context"
	"fmt"
)

// ErrNoPayload is returned by a Directory when a page response carries no
// recognizable listing. Readers treat it as the end of the listing.
var ErrNoPayload = fmt.Errorf("directory page has no recognizable payload")

// Directory lists non-collector users and their subscriptions page by page.
type Directory interface {
	// ListUsers returns the page that follows nextToken. An empty nextToken
	// requests the first page.
	ListUsers(ctx context.Context, nextToken string) (*UserPage, error)
}
