package appsync

import "encoding/json"

const listUserInfosQuery = `
  query listQuery($nextToken: String) {
    listUserInfos(filter: {collector: {eq: false}}, nextToken: $nextToken) {
      items {
        email,
        Subscriptions {
          items {
            ttl
          }
        }
      },
      nextToken
    }
  }
`

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLError struct {
	Message   string `json:"message"`
	ErrorType string `json:"errorType,omitempty"`
}

type listUserInfosResponse struct {
	Data *struct {
		ListUserInfos *userInfoConnection `json:"listUserInfos"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type userInfoConnection struct {
	Items     []*userInfo `json:"items"`
	NextToken *string     `json:"nextToken"`
}

type userInfo struct {
	Email         *string `json:"email"`
	Subscriptions *struct {
		Items []*struct {
			TTL json.RawMessage `json:"ttl"`
		} `json:"items"`
	} `json:"Subscriptions"`
}
