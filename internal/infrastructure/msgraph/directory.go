package msgraph

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"opevents/internal/ports"
)

var _ ports.Directory = (*Client)(nil)

const directoryPageSize = 999

var directorySelectFields = "id,displayName,mail,userPrincipalName,jobTitle,department,officeLocation"

// Only real, active member accounts: rooms, resources, shared
// mailboxes, and disabled accounts are filtered out server-side.
const memberFilter = "userType eq 'Member' and accountEnabled eq true"

type usersPage struct {
	Value    []ports.DirectoryEntry `json:"value"`
	NextLink string                 `json:"@odata.nextLink"`
}

// SearchUsers queries the organization's user directory, optionally
// restricted to one mail domain, following continuation links until
// results are exhausted or maxResults is reached. On error the entries
// collected so far are returned alongside the error.
func (c *Client) SearchUsers(ctx context.Context, domain string, maxResults int) ([]ports.DirectoryEntry, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if maxResults <= 0 {
		maxResults = directoryPageSize
	}

	token, err := c.AppToken(ctx)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("$select", directorySelectFields)
	query.Set("$top", strconv.Itoa(min(maxResults, directoryPageSize)))
	query.Set("$orderby", "displayName")
	if domain != "" {
		domainFilter := fmt.Sprintf(
			"endsWith(mail, '@%s') or endsWith(userPrincipalName, '@%s')",
			domain, domain,
		)
		query.Set("$filter", "("+domainFilter+") and "+memberFilter)
		// endsWith needs the eventual-consistency header plus $count.
		query.Set("$count", "true")
	} else {
		query.Set("$filter", memberFilter)
	}

	all := make([]ports.DirectoryEntry, 0, maxResults)
	next := c.baseURL() + "/users?" + query.Encode()

	for next != "" && len(all) < maxResults {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, next, nil)
		if err != nil {
			return all, err
		}
		req.Header.Set("ConsistencyLevel", "eventual")

		var page usersPage
		if err := c.doJSON(req, token, &page); err != nil {
			return all, err
		}

		all = append(all, page.Value...)
		// nextLink already carries the query parameters.
		next = page.NextLink
	}

	if len(all) > maxResults {
		all = all[:maxResults]
	}
	return all, nil
}
