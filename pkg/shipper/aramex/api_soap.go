package aramex

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tournevent/aramex/pkg/shipper"
	"github.com/tournevent/aramex/pkg/wire"
)

const (
	defaultTimeout = 30 * time.Second
	// diagnosticLimit caps how much of an unusable body is quoted in errors.
	diagnosticLimit = 512
)

// SOAPAPIClient is the production implementation of APIClient. It posts SOAP
// 1.1 envelopes to the endpoints declared by the local service descriptors.
type SOAPAPIClient struct {
	env         Environment
	descriptors *DescriptorResolver
	httpClient  *http.Client
}

// SOAPAPIClientConfig holds configuration for the SOAP client.
type SOAPAPIClientConfig struct {
	DescriptorDir string
	Environment   Environment
	Timeout       time.Duration
}

// NewSOAPAPIClient creates a new SOAP-based API client for production use.
func NewSOAPAPIClient(cfg SOAPAPIClientConfig) *SOAPAPIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		TLSClientConfig:     tlsConfig(cfg.Environment),
		IdleConnTimeout:     90 * time.Second,
		MaxIdleConnsPerHost: 10,
	}

	return &SOAPAPIClient{
		env:         cfg.Environment,
		descriptors: NewDescriptorResolver(cfg.DescriptorDir, cfg.Environment),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// tlsConfig relaxes certificate checks for the sandbox only; its hosts serve
// certificates that do not chain to public roots. The policy is fixed per
// environment and cannot be overridden by callers.
func tlsConfig(env Environment) *tls.Config {
	return &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: env == Sandbox, //nolint:gosec
	}
}

// Preload resolves every service descriptor.
func (c *SOAPAPIClient) Preload(ctx context.Context) error {
	return c.descriptors.Preload(ctx)
}

// Call sends one operation and decodes the reply. It never retries.
func (c *SOAPAPIClient) Call(ctx context.Context, op Operation, body wire.Node) (*Response, error) {
	endpoint, err := c.descriptors.Endpoint(op.Family)
	if err != nil {
		var se *shipper.Error
		if errors.As(err, &se) {
			se.WithOperation(op.Name)
		}
		return nil, err
	}

	var opts []wire.EncodeOption
	if op.Family == FamilyTracking {
		opts = append(opts, wire.WithNamespace("arr", ArraysNamespace))
	}
	payload, err := wire.Encode(op.Name, body, Namespace, opts...)
	if err != nil {
		return nil, shipper.NewError(carrierName, shipper.KindValidation, "failed to encode request").
			WithOperation(op.Name).
			WithCause(err)
	}

	resp, err := c.doSOAPRequest(ctx, endpoint, op.Action(), payload)
	if err != nil {
		return nil, shipper.NewError(carrierName, shipper.KindTransport, "request failed").
			WithOperation(op.Name).
			WithCause(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, shipper.NewError(carrierName, shipper.KindTransport, "failed to read response").
			WithOperation(op.Name).
			WithStatusCode(resp.StatusCode).
			WithCause(err)
	}

	return c.parseResponse(op, resp.StatusCode, raw)
}

func (c *SOAPAPIClient) doSOAPRequest(ctx context.Context, endpoint, action string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", action)

	return c.httpClient.Do(req)
}

func (c *SOAPAPIClient) parseResponse(op Operation, status int, raw []byte) (*Response, error) {
	node, err := wire.Decode(raw)

	var fault *wire.Fault
	if errors.As(err, &fault) {
		return nil, shipper.NewError(carrierName, shipper.KindCarrier, fault.String).
			WithOperation(op.Name).
			WithCode(fault.Code).
			WithStatusCode(status).
			WithDetails([]shipper.Notification{{Code: fault.Code, Message: fault.String}}).
			WithResponse(node, raw)
	}

	success := status >= 200 && status <= 299

	// Aramex also sends business rejections with 4xx and 5xx. Those replies
	// carry HasErrors and are left for Normalize to classify; any other
	// body on a failed status is a proxy or server page.
	if err == nil && (success || !node.Get("HasErrors").IsAbsent()) {
		return &Response{Body: node, Raw: raw}, nil
	}

	if !success {
		return nil, shipper.NewError(carrierName, shipper.KindTransport,
			fmt.Sprintf("unexpected HTTP status %d: %s", status, snippet(raw))).
			WithOperation(op.Name).
			WithStatusCode(status).
			WithResponse(wire.Absent(), raw).
			WithCause(err)
	}

	return nil, shipper.NewError(carrierName, shipper.KindTransport,
		fmt.Sprintf("unreadable response: %s", snippet(raw))).
		WithOperation(op.Name).
		WithStatusCode(status).
		WithResponse(wire.Absent(), raw).
		WithCause(err)
}

func snippet(raw []byte) string {
	s := string(bytes.TrimSpace(raw))
	if len(s) > diagnosticLimit {
		return s[:diagnosticLimit] + "..."
	}
	if s == "" {
		return "empty body"
	}
	return s
}

var _ APIClient = (*SOAPAPIClient)(nil)
