package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DiscordClient talks to the membership provider over HTTP. A 404 means the
// account is unknown to the guild and maps to a zero MemberInfo; any other
// failure surfaces as ErrUpstreamUnavailable so badge sync skips the cycle.
type DiscordClient struct {
	baseURL      string
	serviceToken string
	httpClient   *http.Client
}

func NewDiscordClient(baseURL, serviceToken string) *DiscordClient {
	return &DiscordClient{
		baseURL:      baseURL,
		serviceToken: serviceToken,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *DiscordClient) GetMemberInfo(ctx context.Context, externalID string) (MemberInfo, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return MemberInfo{}, fmt.Errorf("%w: invalid provider URL %q: %v", ErrUpstreamUnavailable, c.baseURL, err)
	}
	endpoint := base.JoinPath("/api/guild/members", externalID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return MemberInfo{}, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	req.Header.Set("X-Service-Token", c.serviceToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return MemberInfo{}, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer func() {
		// Always drain & close to prevent connection leaks
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return MemberInfo{}, nil // not in the guild: both flags false
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return MemberInfo{}, fmt.Errorf("%w: provider returned %d — %s", ErrUpstreamUnavailable, resp.StatusCode, string(body))
	}

	var info MemberInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return MemberInfo{}, fmt.Errorf("%w: decoding response: %v", ErrUpstreamUnavailable, err)
	}
	return info, nil
}
