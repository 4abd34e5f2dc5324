package weblarek

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/example/weblarek/internal/domain/order"
	"github.com/example/weblarek/internal/domain/product"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidResponse = errors.New("invalid api response")
)

// APIError is returned for non-2xx responses
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// listResponse is the envelope of GET /product
type listResponse struct {
	Total int           `json:"total"`
	Items []product.Raw `json:"items"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Client talks to the storefront API. Image paths are resolved against contentBase.
type Client struct {
	baseURL     string
	contentBase string
	http        *http.Client
}

func NewClient(baseURL, contentBase string, timeout time.Duration) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		contentBase: contentBase,
		http:        &http.Client{Timeout: timeout},
	}
}

// FetchCatalog loads every product. Items failing validation are skipped.
func (c *Client) FetchCatalog(ctx context.Context) ([]product.Product, error) {
	var resp listResponse
	if err := c.do(ctx, http.MethodGet, "/product", nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}

	products := make([]product.Product, 0, len(resp.Items))
	for _, raw := range resp.Items {
		p, err := product.Parse(raw, c.contentBase)
		if err != nil {
			log.Printf("[API] Skipping catalog item: %v", err)
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

// FetchProduct loads one product
func (c *Client) FetchProduct(ctx context.Context, id string) (product.Product, error) {
	if strings.TrimSpace(id) == "" {
		return product.Product{}, product.ErrMissingID
	}

	var raw product.Raw
	if err := c.do(ctx, http.MethodGet, "/product/"+url.PathEscape(id), nil, &raw); err != nil {
		return product.Product{}, fmt.Errorf("fetch product %s: %w", id, err)
	}
	p, err := product.Parse(raw, c.contentBase)
	if err != nil {
		return product.Product{}, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	return p, nil
}

// SubmitOrder posts a finalized order
func (c *Client) SubmitOrder(ctx context.Context, o order.Order) (order.Result, error) {
	if err := o.Finalize(); err != nil {
		return order.Result{}, err
	}

	var result order.Result
	if err := c.do(ctx, http.MethodPost, "/order", o, &result); err != nil {
		return order.Result{}, fmt.Errorf("submit order: %w", err)
	}
	if result.ID == "" {
		return order.Result{}, fmt.Errorf("%w: order id missing", ErrInvalidResponse)
	}
	return result, nil
}

func (c *Client) do(ctx context.Context, method, uri string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+uri, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	return nil
}

// decodeError turns a non-2xx response into an APIError using its {error} body when present
func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	var body errorResponse
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
	}

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %w", ErrNotFound, apiErr)
	}
	return apiErr
}
