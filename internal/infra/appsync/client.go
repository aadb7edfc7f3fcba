package appsync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"subscription_expiry_notifier/internal/domain/subscription"
)

const defaultHTTPTimeout = 30 * time.Second

var errMissingItems = errors.New("GraphQL listUserInfos page has no items")

type requestSigner interface {
	Sign(ctx context.Context, req *http.Request, body []byte) error
}

// Client lists directory users through a signed AppSync GraphQL endpoint.
// It implements subscription.Directory.
type Client struct {
	endpoint   *url.URL
	httpClient *http.Client
	signer     requestSigner
}

// NewClient validates endpoint and returns a Client. A nil httpClient gets a
// default client with a 30 second timeout.
func NewClient(endpoint string, httpClient *http.Client, signer requestSigner) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid GraphQL endpoint %q: %w", endpoint, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid GraphQL endpoint %q: scheme and host are required", endpoint)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{
		endpoint:   u,
		httpClient: httpClient,
		signer:     signer,
	}, nil
}

// ListUsers fetches the page of non-collector users following nextToken.
func (c *Client) ListUsers(ctx context.Context, nextToken string) (*subscription.UserPage, error) {
	var token any
	if nextToken != "" {
		token = nextToken
	}
	body, err := json.Marshal(graphQLRequest{
		Query:     listUserInfosQuery,
		Variables: map[string]any{"nextToken": token},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode GraphQL request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create GraphQL request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if err := c.signer.Sign(ctx, req, body); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GraphQL request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("GraphQL endpoint returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var decoded listUserInfosResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode GraphQL response: %w", err)
	}

	if decoded.Data == nil || decoded.Data.ListUserInfos == nil {
		if len(decoded.Errors) > 0 {
			return nil, fmt.Errorf("%w: %s", subscription.ErrNoPayload, joinErrors(decoded.Errors))
		}
		return nil, subscription.ErrNoPayload
	}

	if decoded.Data.ListUserInfos.Items == nil {
		return nil, errMissingItems
	}

	return toUserPage(decoded.Data.ListUserInfos), nil
}

// toUserPage maps the GraphQL connection onto domain records. Null users and
// null subscriptions are dropped, as are subscriptions without a usable ttl.
func toUserPage(conn *userInfoConnection) *subscription.UserPage {
	page := &subscription.UserPage{
		Items: make([]subscription.UserRecord, 0, len(conn.Items)),
	}
	if conn.NextToken != nil {
		page.NextToken = *conn.NextToken
	}

	for _, item := range conn.Items {
		if item == nil {
			continue
		}
		user := subscription.UserRecord{}
		if item.Email != nil {
			user.Email = *item.Email
		}
		if item.Subscriptions != nil {
			for _, s := range item.Subscriptions.Items {
				if s == nil {
					continue
				}
				expiresAt, ok := parseTTL(s.TTL)
				if !ok {
					continue
				}
				user.Subscriptions = append(user.Subscriptions, subscription.SubscriptionRecord{ExpiresAt: expiresAt})
			}
		}
		page.Items = append(page.Items, user)
	}
	return page
}

// parseTTL reads a ttl value the way the expiry window compares it: null,
// false and blank strings are 0, true is 1, numeric strings are their number
// and fractions are rounded down. An absent or non-numeric ttl is unusable.
func parseTTL(raw json.RawMessage) (int64, bool) {
	v := strings.TrimSpace(string(raw))
	switch {
	case v == "":
		return 0, false
	case v == "null":
		return 0, true
	case v == "true":
		return 1, true
	case v == "false":
		return 0, true
	}
	if unquoted, err := strconv.Unquote(v); err == nil {
		v = strings.TrimSpace(unquoted)
		if v == "" {
			return 0, true
		}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if i, err := strconv.ParseInt(v, 10, 64); err == nil {
		return i, true
	}
	return int64(math.Floor(f)), true
}

func joinErrors(errs []graphQLError) string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		if e.ErrorType != "" {
			msgs = append(msgs, e.ErrorType+": "+e.Message)
			continue
		}
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}
