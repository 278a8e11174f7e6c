// Package metro discovers inspectable app runtimes through the Metro
// bundler's /json endpoint.
package metro

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/rnbridge/internal/domain"
	"github.com/bnema/rnbridge/internal/ports"
	"github.com/go-logr/logr"
)

const (
	DefaultBaseURL = "http://localhost:8081"

	discoveryPath           = "/json"
	defaultRequestTimeout   = 5 * time.Second
	maxDiscoveryBodyBytes   = 4 << 20
	reactNativeMarkerInDesc = "React Native"
)

type Client struct {
	URL            string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	Log            logr.Logger
}

var _ ports.TargetDiscoverer = Client{}

// pageDescriptor is one entry of the bundler's target list. Entries without
// React Native metadata belong to other tooling (for example a Chrome page
// proxied by the same server).
type pageDescriptor struct {
	ID                   string               `json:"id"`
	Title                string               `json:"title"`
	Description          string               `json:"description"`
	Type                 string               `json:"type"`
	AppID                string               `json:"appId"`
	VM                   string               `json:"vm"`
	DeviceName           string               `json:"deviceName"`
	DevtoolsFrontendURL  string               `json:"devtoolsFrontendUrl"`
	WebSocketDebuggerURL string               `json:"webSocketDebuggerUrl"`
	ReactNative          *reactNativeMetadata `json:"reactNative"`
}

type reactNativeMetadata struct {
	LogicalDeviceID string          `json:"logicalDeviceId"`
	Capabilities    map[string]bool `json:"capabilities"`
}

func (c Client) BaseURL() string {
	if c.URL == "" {
		return DefaultBaseURL
	}
	return c.URL
}

func (c Client) Discover(ctx context.Context) ([]domain.Target, error) {
	endpoint, err := buildDiscoveryURL(c.BaseURL())
	if err != nil {
		return nil, &domain.DiscoveryError{URL: c.BaseURL(), Err: err}
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &domain.DiscoveryError{URL: c.BaseURL(), Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, &domain.DiscoveryError{URL: c.BaseURL(), Err: fmt.Errorf("perform request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDiscoveryBodyBytes))
	if err != nil {
		return nil, &domain.DiscoveryError{URL: c.BaseURL(), Err: fmt.Errorf("read response: %w", err)}
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &domain.DiscoveryError{URL: c.BaseURL(), Err: fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))}
	}

	var descriptors []pageDescriptor
	if err := json.Unmarshal(body, &descriptors); err != nil {
		return nil, &domain.DiscoveryError{URL: c.BaseURL(), Err: fmt.Errorf("decode target list: %w", err)}
	}

	targets := targetsFromDescriptors(descriptors)
	c.Log.V(1).Info("discovered targets", "url", endpoint, "descriptors", len(descriptors), "targets", len(targets))

	return targets, nil
}

func targetsFromDescriptors(descriptors []pageDescriptor) []domain.Target {
	targets := make([]domain.Target, 0, len(descriptors))
	seen := make(map[string]struct{}, len(descriptors))

	for _, descriptor := range descriptors {
		if !isRuntimeDescriptor(descriptor) {
			continue
		}

		key := descriptor.ID + "\x00" + descriptor.WebSocketDebuggerURL
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		targets = append(targets, domain.Target{
			ID:          domain.TargetID(descriptor.ID),
			Title:       descriptor.Title,
			Description: descriptor.Description,
			DeviceName:  descriptor.DeviceName,
			AppID:       descriptor.AppID,
			VM:          descriptor.VM,
			Endpoint:    descriptor.WebSocketDebuggerURL,
		})
	}

	return targets
}

func isRuntimeDescriptor(descriptor pageDescriptor) bool {
	if descriptor.ReactNative != nil {
		return true
	}
	return strings.Contains(descriptor.Description, reactNativeMarkerInDesc)
}

func (c Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := c.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}

	return context.WithTimeout(ctx, requestTimeout)
}

func buildDiscoveryURL(baseURL string) (string, error) {
	if strings.TrimSpace(baseURL) == "" {
		return "", errors.New("metro url is required")
	}

	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return "", fmt.Errorf("parse metro url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("metro url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("metro url host is required")
	}

	parsed.Path = strings.TrimRight(parsed.Path, "/") + discoveryPath
	return parsed.String(), nil
}
