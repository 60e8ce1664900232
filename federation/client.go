package federation

import (
	"bytes"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPClient is the federation package's own transport seam, mirroring
// activitypub.HTTPClient so either a *http.Client or a test double can be
// passed through without the two packages depending on each other.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is the outbound ActivityPub transport: deliver, fetch actor,
// fetch object, and WebFinger discovery, each rate-limited per host.
type Client struct {
	HTTP            HTTPClient
	Limiter         *Limiter
	UserAgent       string
	DeliverTimeout  time.Duration
	FetchTimeout    time.Duration
}

func NewClient(httpClient HTTPClient, limiter *Limiter, userAgent string) *Client {
	return &Client{
		HTTP:           httpClient,
		Limiter:        limiter,
		UserAgent:      userAgent,
		DeliverTimeout: 30 * time.Second,
		FetchTimeout:   10 * time.Second,
	}
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

func (c *Client) checkRateLimit(targetURL string) error {
	if c.Limiter == nil {
		return nil
	}
	host := hostOf(targetURL)
	if c.Limiter.Allow(host, time.Now()) == Cooldown {
		return NewError(ErrKindRateLimited, fmt.Errorf("host %s is in cooldown", host))
	}
	return nil
}

// Deliver signs and POSTs a pre-marshaled activity to inboxURI.
func (c *Client) Deliver(inboxURI string, activityJSON []byte, privateKey *rsa.PrivateKey, keyID string) error {
	if err := c.checkRateLimit(inboxURI); err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, inboxURI, bytes.NewReader(activityJSON))
	if err != nil {
		return NewError(ErrKindFederation, fmt.Errorf("build delivery request: %w", err))
	}

	req.Header.Set("Content-Type", "application/activity+json")
	req.Header.Set("Accept", "application/activity+json")
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Date", time.Now().UTC().Format(http.TimeFormat))
	req.Header.Set("Host", req.URL.Host)
	req.Header.Set("Digest", Digest(activityJSON))

	if err := SignRequest(req, privateKey, keyID, nil); err != nil {
		return err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return NewError(ErrKindExternalService, fmt.Errorf("deliver to %s: %w", inboxURI, err))
	}
	defer resp.Body.Close()

	return classifyResponse(resp, inboxURI)
}

func classifyResponse(resp *http.Response, target string) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return NewError(ErrKindRateLimited, fmt.Errorf("%s responded 429", target))
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return NewError(ErrKindUnauthorized, fmt.Errorf("%s responded %d", target, resp.StatusCode))
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return NewError(ErrKindNotFound, fmt.Errorf("%s responded %d", target, resp.StatusCode))
	case resp.StatusCode >= 500:
		return NewError(ErrKindExternalService, fmt.Errorf("%s responded %d", target, resp.StatusCode))
	default:
		return NewError(ErrKindFederation, fmt.Errorf("%s responded %d", target, resp.StatusCode))
	}
}

// FetchObject GETs an arbitrary ActivityPub object/actor URI and returns the
// raw body, enforcing the per-host rate limit and Accept header.
func (c *Client) FetchObject(objectURI string) ([]byte, error) {
	if err := c.checkRateLimit(objectURI); err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodGet, objectURI, nil)
	if err != nil {
		return nil, NewError(ErrKindFederation, fmt.Errorf("build fetch request: %w", err))
	}
	req.Header.Set("Accept", "application/activity+json")
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, NewError(ErrKindExternalService, fmt.Errorf("fetch %s: %w", objectURI, err))
	}
	defer resp.Body.Close()

	if err := classifyResponse(resp, objectURI); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewError(ErrKindExternalService, fmt.Errorf("read body of %s: %w", objectURI, err))
	}
	return body, nil
}

// WebfingerResource is the subset of a JRD document resolveMentionURI and
// WebFinger-handling handlers need.
type WebfingerResource struct {
	Subject string             `json:"subject"`
	Links   []WebfingerLink    `json:"links"`
	Aliases []string           `json:"aliases,omitempty"`
}

type WebfingerLink struct {
	Rel  string `json:"rel"`
	Type string `json:"type,omitempty"`
	Href string `json:"href,omitempty"`
}

// ResolveWebfinger looks up acct:user@host via the host's
// /.well-known/webfinger endpoint and returns the actor URI from the "self"
// rel link.
func (c *Client) ResolveWebfinger(acct string) (string, error) {
	user, host, ok := strings.Cut(strings.TrimPrefix(acct, "acct:"), "@")
	if !ok || user == "" || host == "" {
		return "", NewError(ErrKindBadRequest, fmt.Errorf("malformed acct URI: %s", acct))
	}

	resource := url.QueryEscape(fmt.Sprintf("acct:%s@%s", user, host))
	wfURL := fmt.Sprintf("https://%s/.well-known/webfinger?resource=%s", host, resource)

	if err := c.checkRateLimit(wfURL); err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodGet, wfURL, nil)
	if err != nil {
		return "", NewError(ErrKindFederation, fmt.Errorf("build webfinger request: %w", err))
	}
	req.Header.Set("Accept", "application/jrd+json")
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", NewError(ErrKindExternalService, fmt.Errorf("webfinger %s: %w", acct, err))
	}
	defer resp.Body.Close()

	if err := classifyResponse(resp, wfURL); err != nil {
		return "", err
	}

	var jrd WebfingerResource
	if err := json.NewDecoder(resp.Body).Decode(&jrd); err != nil {
		return "", NewError(ErrKindFederation, fmt.Errorf("decode webfinger response: %w", err))
	}

	for _, link := range jrd.Links {
		if link.Rel == "self" && link.Href != "" {
			return link.Href, nil
		}
	}
	return "", NewError(ErrKindNotFound, fmt.Errorf("no self link in webfinger response for %s", acct))
}
