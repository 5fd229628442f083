// Package remote resolves callers by forwarding their bearer token to the
// identity service's validation endpoint.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vncsmyrnk/estate/internal/core/domain"
	"github.com/vncsmyrnk/estate/internal/logging"
)

const (
	validatePath    = "/users/validate"
	maxResponseBody = 64 << 10
)

type validateResponse struct {
	Valid bool `json:"valid"`
	User  *struct {
		ID        int64  `json:"id"`
		Email     string `json:"email"`
		LastName  string `json:"nom"`
		FirstName string `json:"prenom"`
		BirthDate string `json:"date_de_naissance"`
	} `json:"user"`
}

type Resolver struct {
	endpoint string
	client   *http.Client
	log      logging.Logger
}

// NewResolver targets baseURL (e.g. http://identity:5000). Every call is
// bounded by timeout.
func NewResolver(baseURL string, timeout time.Duration, log logging.Logger) *Resolver {
	return &Resolver{
		endpoint: strings.TrimRight(baseURL, "/") + validatePath,
		client:   &http.Client{Timeout: timeout},
		log:      log.With("component", "remote_identity"),
	}
}

func (r *Resolver) Resolve(ctx context.Context, authorization string) (*domain.Caller, error) {
	if authorization == "" {
		return nil, domain.ErrMissingToken
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	req.Header.Set("Authorization", authorization)
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.log.Warn(ctx, "identity service unreachable", "error", err)
		return nil, fmt.Errorf("%w: identity service unreachable", domain.ErrUnauthorized)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.log.Warn(ctx, "identity service rejected token", "status", resp.StatusCode)
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBody))
		return nil, domain.ErrInvalidToken
	}

	var body validateResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(&body); err != nil {
		r.log.Warn(ctx, "undecodable identity response", "error", err)
		return nil, fmt.Errorf("%w: bad identity response", domain.ErrUnauthorized)
	}
	if !body.Valid || body.User == nil || body.User.ID == 0 {
		return nil, domain.ErrInvalidToken
	}

	caller := &domain.Caller{
		ID:        body.User.ID,
		Email:     body.User.Email,
		FirstName: body.User.FirstName,
		LastName:  body.User.LastName,
	}
	if t, err := time.Parse(domain.DateLayout, body.User.BirthDate); err == nil {
		caller.BirthDate = t
	}
	return caller, nil
}
