package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// ErrUnexpectedResponse is returned when the admin API answers with a body
// that does not carry data.customer.orders.edges.
var ErrUnexpectedResponse = errors.New("unexpected shopify response shape")

const customerOrdersQuery = `query CustomerOrders($id: ID!, $first: Int!) {
  customer(id: $id) {
    orders(first: $first) {
      edges {
        node {
          id
        }
      }
    }
  }
}`

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type orderEdge struct {
	Node struct {
		ID string `json:"id"`
	} `json:"node"`
}

type customerOrdersResponse struct {
	Data *struct {
		Customer *struct {
			Orders *struct {
				Edges *[]orderEdge `json:"edges"`
			} `json:"orders"`
		} `json:"customer"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type ShopifyOrderRepo struct {
	endpoint    string
	accessToken string
	httpClient  *http.Client
}

// ShopifyGraphQLEndpoint returns the admin GraphQL URL for a shop.
func ShopifyGraphQLEndpoint(shopDomain, apiVersion string) string {
	return fmt.Sprintf("https://%s/admin/api/%s/graphql.json", shopDomain, apiVersion)
}

// NewHTTPClient returns a traced client that gives up after timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

func NewShopifyOrderRepo(endpoint, accessToken string, httpClient *http.Client) *ShopifyOrderRepo {
	if httpClient == nil {
		httpClient = NewHTTPClient(5 * time.Second)
	}
	return &ShopifyOrderRepo{
		endpoint:    endpoint,
		accessToken: accessToken,
		httpClient:  httpClient,
	}
}

// CountOrders asks the admin API for at most limit orders of the customer and
// returns how many came back. customerID is the numeric Shopify id.
func (r *ShopifyOrderRepo) CountOrders(ctx context.Context, customerID string, limit int) (int, error) {
	body, err := json.Marshal(graphQLRequest{
		Query: customerOrdersQuery,
		Variables: map[string]any{
			"id":    "gid://shopify/Customer/" + customerID,
			"first": limit,
		},
	})
	if err != nil {
		return 0, fmt.Errorf("encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", r.accessToken)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("post graphql: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("shopify returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out customerOrdersResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}

	if len(out.Errors) > 0 {
		msgs := make([]string, 0, len(out.Errors))
		for _, e := range out.Errors {
			msgs = append(msgs, e.Message)
		}
		return 0, fmt.Errorf("%w: graphql errors: %s", ErrUnexpectedResponse, strings.Join(msgs, "; "))
	}

	switch {
	case out.Data == nil:
		return 0, fmt.Errorf("%w: missing data", ErrUnexpectedResponse)
	case out.Data.Customer == nil:
		return 0, fmt.Errorf("%w: customer not found", ErrUnexpectedResponse)
	case out.Data.Customer.Orders == nil || out.Data.Customer.Orders.Edges == nil:
		return 0, fmt.Errorf("%w: missing orders", ErrUnexpectedResponse)
	}

	return len(*out.Data.Customer.Orders.Edges), nil
}
