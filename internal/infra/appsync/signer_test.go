package appsync

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStaticSigner() *RequestSigner {
	s := NewRequestSigner(credentials.NewStaticCredentialsProvider("AKIDEXAMPLE", "secret", ""), "eu-west-1", "appsync")
	s.now = func() time.Time { return time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC) }
	return s
}

func TestRequestSigner_Sign(t *testing.T) {
	body := []byte(`{"query":"{}"}`)
	req, err := http.NewRequest(http.MethodPost, "https://abc.appsync-api.eu-west-1.amazonaws.com/graphql", strings.NewReader(string(body)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	require.NoError(t, newStaticSigner().Sign(context.Background(), req, body))

	auth := req.Header.Get("Authorization")
	assert.True(t, strings.HasPrefix(auth, "AWS4-HMAC-SHA256 "), auth)
	assert.Contains(t, auth, "Credential=AKIDEXAMPLE/20260310/eu-west-1/appsync/aws4_request")
	assert.Contains(t, auth, "SignedHeaders=")
	assert.Equal(t, "20260310T090000Z", req.Header.Get("X-Amz-Date"))
}

func TestRequestSigner_SignIsDeterministic(t *testing.T) {
	body := []byte(`{"query":"{}"}`)
	sign := func() string {
		req, err := http.NewRequest(http.MethodPost, "https://abc.example.com/graphql", strings.NewReader(string(body)))
		require.NoError(t, err)
		require.NoError(t, newStaticSigner().Sign(context.Background(), req, body))
		return req.Header.Get("Authorization")
	}
	assert.Equal(t, sign(), sign())
}

func TestRequestSigner_CredentialError(t *testing.T) {
	failing := aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		return aws.Credentials{}, errors.New("no EC2 IMDS role found")
	})
	s := NewRequestSigner(failing, "us-east-1", "appsync")

	req, err := http.NewRequest(http.MethodPost, "https://abc.example.com/graphql", nil)
	require.NoError(t, err)

	err = s.Sign(context.Background(), req, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no EC2 IMDS role found")
	assert.Empty(t, req.Header.Get("Authorization"))
}
