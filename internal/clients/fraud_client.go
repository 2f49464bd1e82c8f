// internal/clients/fraud_client.go
package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// FraudClient is the raw RPC client for the fraud service. Resilience is not
// its job; the caller wraps Check with the policy chain.
type FraudClient struct {
	baseURL string
	client  *http.Client
}

func NewFraudClient(baseURL string) *FraudClient {
	return &FraudClient{baseURL: baseURL, client: http.DefaultClient}
}

// Check calls GET /fraud-check/{customerId} and reports the fraud verdict.
func (c *FraudClient) Check(ctx context.Context, customerID uuid.UUID) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/fraud-check/%s", c.baseURL, customerID), nil)
	if err != nil {
		return false, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var body struct {
		IsFraudster bool `json:"isFraudster"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, err
	}

	return body.IsFraudster, nil
}
