package vrm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/anicoll/vrm-integration/internal/pkg/model"
	"github.com/samber/lo"
)

type installationRecord struct {
	IDSite     int64  `json:"idSite"`
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
	Timezone   string `json:"timezone"`
}

// User resolves the account owner. Memoized for the client's lifetime.
func (c *Client) User(ctx context.Context) (model.User, error) {
	c.userMu.Lock()
	defer c.userMu.Unlock()

	if c.user != nil {
		return *c.user, nil
	}

	data, err := c.request(ctx, http.MethodGet, "users/me", nil, nil)
	if err != nil {
		return model.User{}, err
	}

	userRes := struct {
		User model.User `json:"user"`
	}{}
	if err := json.Unmarshal(data, &userRes); err != nil {
		return model.User{}, err
	}

	c.user = &userRes.User
	return *c.user, nil
}

// Installations fetches the account's current installation list. No
// caching across calls; an empty list is a valid result.
func (c *Client) Installations(ctx context.Context) ([]model.Installation, error) {
	user, err := c.User(ctx)
	if err != nil {
		return nil, err
	}

	data, err := c.request(ctx, http.MethodGet, fmt.Sprintf("users/%d/installations", user.ID), nil, nil)
	if err != nil {
		return nil, err
	}

	listRes := struct {
		Records []installationRecord `json:"records"`
	}{}
	if err := json.Unmarshal(data, &listRes); err != nil {
		return nil, err
	}

	return lo.Map(listRes.Records, func(record installationRecord, _ int) model.Installation {
		timezone := record.Timezone
		if timezone == "" {
			timezone = "UTC"
		}
		return model.Installation{
			ID:         record.IDSite,
			Identifier: record.Identifier,
			Name:       record.Name,
			Timezone:   timezone,
		}
	}), nil
}
