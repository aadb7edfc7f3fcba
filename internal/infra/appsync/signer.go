package appsync

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
)

// RequestSigner signs directory requests with AWS Signature Version 4 using
// ambient credentials.
type RequestSigner struct {
	credentials aws.CredentialsProvider
	signer      *v4.Signer
	region      string
	service     string
	now         func() time.Time
}

func NewRequestSigner(credentials aws.CredentialsProvider, region, service string) *RequestSigner {
	return &RequestSigner{
		credentials: credentials,
		signer:      v4.NewSigner(),
		region:      region,
		service:     service,
		now:         time.Now,
	}
}

// Sign adds the SigV4 authentication headers for body to req.
func (s *RequestSigner) Sign(ctx context.Context, req *http.Request, body []byte) error {
	creds, err := s.credentials.Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve AWS credentials: %w", err)
	}

	sum := sha256.Sum256(body)
	payloadHash := hex.EncodeToString(sum[:])

	if err := s.signer.SignHTTP(ctx, creds, req, payloadHash, s.service, s.region, s.now()); err != nil {
		return fmt.Errorf("failed to sign request: %w", err)
	}
	return nil
}
