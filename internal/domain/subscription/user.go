// internal/domain/subscription/user.go
package subscription

// UserRecord is a directory user together with the expirations of the
// subscriptions they track. Rebuilt from the directory on every run.
type UserRecord struct {
	Email         string
	Subscriptions []SubscriptionRecord
}

// SubscriptionRecord holds a single subscription expiration.
type SubscriptionRecord struct {
	ExpiresAt int64 // Unix seconds (the directory's ttl field)
}

// UserPage is one page of a paginated directory listing.
type UserPage struct {
	Items     []UserRecord
	NextToken string // Empty when no further pages exist
}
