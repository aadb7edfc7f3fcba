// internal/infra/database/postgres_user_directory.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"subscription_expiry_notifier/internal/domain/subscription"

	"github.com/lib/pq" // For pq.Int64Array
)

var ErrInvalidPageToken = fmt.Errorf("invalid directory page token")

const listUsersQuery = `SELECT u.id, u.email,
       COALESCE(array_agg(s.ttl ORDER BY s.ttl) FILTER (WHERE s.ttl IS NOT NULL), '{}') AS ttls
  FROM user_infos u
  LEFT JOIN subscriptions s ON s.user_info_id = u.id
 WHERE u.collector = FALSE AND u.id > $1
 GROUP BY u.id, u.email
 ORDER BY u.id
 LIMIT $2`

// PostgresUserDirectory implements subscription.Directory over a Postgres
// copy of the user directory. Pages are keyed on user id; the page token is
// the id of the last user returned.
type PostgresUserDirectory struct {
	db       *sql.DB
	pageSize int
}

func NewPostgresUserDirectory(db *sql.DB, pageSize int) *PostgresUserDirectory {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &PostgresUserDirectory{db: db, pageSize: pageSize}
}

func (r *PostgresUserDirectory) ListUsers(ctx context.Context, nextToken string) (*subscription.UserPage, error) {
	var afterID int64
	if nextToken != "" {
		id, err := strconv.ParseInt(nextToken, 10, 64)
		if err != nil || id < 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPageToken, nextToken)
		}
		afterID = id
	}

	// One extra row tells whether another page exists.
	rows, err := r.db.QueryContext(ctx, listUsersQuery, afterID, int64(r.pageSize+1))
	if err != nil {
		return nil, fmt.Errorf("error querying directory users: %w", err)
	}
	defer rows.Close()

	page := &subscription.UserPage{Items: make([]subscription.UserRecord, 0, r.pageSize)}
	var lastID int64
	for rows.Next() {
		if len(page.Items) == r.pageSize {
			page.NextToken = strconv.FormatInt(lastID, 10)
			break
		}

		var (
			id    int64
			email sql.NullString
			ttls  pq.Int64Array
		)
		if err := rows.Scan(&id, &email, &ttls); err != nil {
			return nil, fmt.Errorf("error scanning directory user: %w", err)
		}

		user := subscription.UserRecord{Email: email.String}
		for _, ttl := range ttls {
			user.Subscriptions = append(user.Subscriptions, subscription.SubscriptionRecord{ExpiresAt: ttl})
		}
		page.Items = append(page.Items, user)
		lastID = id
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating directory users: %w", err)
	}

	return page, nil
}
