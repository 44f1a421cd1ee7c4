package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	domain "github.com/oksasatya/go-ddd-social-graph/internal/domain/identity"
)

// ProviderDirectory reads user records from the provider's backend API.
type ProviderDirectory struct {
	BaseURL    string
	SecretKey  string
	HTTPClient *http.Client
}

func NewProviderDirectory(baseURL, secretKey string, timeout time.Duration) *ProviderDirectory {
	return &ProviderDirectory{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		SecretKey:  secretKey,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

type providerEmail struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

type providerUser struct {
	ID                    string          `json:"id"`
	Username              *string         `json:"username"`
	FirstName             *string         `json:"first_name"`
	LastName              *string         `json:"last_name"`
	ImageURL              string          `json:"image_url"`
	PrimaryEmailAddressID *string         `json:"primary_email_address_id"`
	EmailAddresses        []providerEmail `json:"email_addresses"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (d *ProviderDirectory) GetUser(ctx context.Context, id string) (*domain.Attributes, error) {
	endpoint := d.BaseURL + "/v1/users/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	req.Header.Set("Authorization", "Bearer "+d.SecretKey)
	req.Header.Set("Accept", "application/json")

	res, err := d.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer func() { _ = res.Body.Close() }()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return nil, domain.ErrNotFound
	case res.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrUpstream, res.StatusCode, strings.TrimSpace(string(body)))
	}

	var pu providerUser
	if err := json.NewDecoder(res.Body).Decode(&pu); err != nil {
		return nil, fmt.Errorf("%w: decode user: %v", domain.ErrUpstream, err)
	}

	attrs := &domain.Attributes{
		ID:        pu.ID,
		Username:  deref(pu.Username),
		FirstName: deref(pu.FirstName),
		LastName:  deref(pu.LastName),
		ImageURL:  pu.ImageURL,
	}
	primary := deref(pu.PrimaryEmailAddressID)
	for _, e := range pu.EmailAddresses {
		attrs.Emails = append(attrs.Emails, e.EmailAddress)
		if primary != "" && e.ID == primary {
			attrs.PrimaryEmail = e.EmailAddress
		}
	}
	return attrs, nil
}

var _ domain.Directory = (*ProviderDirectory)(nil)
