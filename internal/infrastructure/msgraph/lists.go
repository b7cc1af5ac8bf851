package msgraph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"opevents/internal/domain/event"
	"opevents/internal/ports"
)

// ListRepository persists events in the remote list store. Items carry
// an opaque id plus a fields object keyed by internal column names;
// the field map translates those to logical names and back.
type ListRepository struct {
	client *Client
}

var _ ports.EventRepository = (*ListRepository)(nil)

func NewListRepository(client *Client) *ListRepository {
	return &ListRepository{client: client}
}

func (r *ListRepository) listURL() (string, error) {
	cfg := r.client.cfg.Graph
	if cfg.SiteID == "" || cfg.ListID == "" {
		return "", &ports.ConfigError{Setting: "graph.site_id / graph.list_id"}
	}
	return fmt.Sprintf("%s/sites/%s/lists/%s", r.client.baseURL(), cfg.SiteID, cfg.ListID), nil
}

type listItem struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

type listItemsPage struct {
	Value    []listItem `json:"value"`
	NextLink string     `json:"@odata.nextLink"`
}

func (r *ListRepository) Create(ctx context.Context, e event.Event) (string, error) {
	if ctx == nil {
		return "", errors.New("context is required")
	}

	base, err := r.listURL()
	if err != nil {
		return "", err
	}
	token, err := r.client.AppToken(ctx)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(map[string]any{"fields": toListFields(e.Fields())})
	if err != nil {
		return "", fmt.Errorf("encode item payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/items", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}

	var created listItem
	if err := r.client.doJSON(req, token, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

func (r *ListRepository) ListAll(ctx context.Context) ([]event.Event, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	base, err := r.listURL()
	if err != nil {
		return nil, err
	}
	token, err := r.client.AppToken(ctx)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("$expand", "fields")
	query.Set("$top", "999")

	var events []event.Event
	next := base + "/items?" + query.Encode()

	for next != "" {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, next, nil)
		if err != nil {
			return events, err
		}

		var page listItemsPage
		if err := r.client.doJSON(req, token, &page); err != nil {
			return events, err
		}

		for _, item := range page.Value {
			events = append(events, event.FromFields(item.ID, fromListFields(item.Fields)))
		}
		next = page.NextLink
	}

	return events, nil
}

func (r *ListRepository) Update(ctx context.Context, id string, patch event.Patch) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if id == "" {
		return errors.New("item id is required")
	}

	fields := toListFields(patch.Fields())
	if len(fields) == 0 {
		return errors.New("no fields to update")
	}

	base, err := r.listURL()
	if err != nil {
		return err
	}
	token, err := r.client.AppToken(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode patch payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, base+"/items/"+id+"/fields", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	return r.client.doJSON(req, token, nil)
}

// columnIndicators are checked in order against a raw column
// definition; the first present key decides the resolved type.
var columnIndicators = []struct {
	key string
	typ string
}{
	{"text", "Text"},
	{"dateTime", "DateTime"},
	{"choice", "Choice"},
	{"number", "Number"},
	{"boolean", "Boolean"},
	{"personOrGroup", "Person"},
	{"lookup", "Lookup"},
}

func resolveColumnType(raw map[string]any) string {
	for _, indicator := range columnIndicators {
		if _, ok := raw[indicator.key]; ok {
			return indicator.typ
		}
	}
	if declared, ok := raw["type"].(string); ok && declared != "" {
		return declared
	}
	return "Unknown"
}

func (r *ListRepository) DescribeSchema(ctx context.Context) ([]ports.ListColumn, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	base, err := r.listURL()
	if err != nil {
		return nil, err
	}
	token, err := r.client.AppToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/columns", nil)
	if err != nil {
		return nil, err
	}

	var page struct {
		Value []map[string]any `json:"value"`
	}
	if err := r.client.doJSON(req, token, &page); err != nil {
		return nil, err
	}

	columns := make([]ports.ListColumn, 0, len(page.Value))
	for _, raw := range page.Value {
		if hidden, _ := raw["hidden"].(bool); hidden {
			continue
		}
		if readOnly, _ := raw["readOnly"].(bool); readOnly {
			continue
		}
		name, _ := raw["name"].(string)
		displayName, _ := raw["displayName"].(string)
		description, _ := raw["description"].(string)
		columns = append(columns, ports.ListColumn{
			Name:        name,
			DisplayName: displayName,
			Description: description,
			Type:        resolveColumnType(raw),
		})
	}
	return columns, nil
}

// TestConnection reads the list metadata to confirm reachability and
// valid credentials.
func (r *ListRepository) TestConnection(ctx context.Context) (string, error) {
	if ctx == nil {
		return "", errors.New("context is required")
	}

	base, err := r.listURL()
	if err != nil {
		return "", err
	}
	token, err := r.client.AppToken(ctx)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base, nil)
	if err != nil {
		return "", err
	}

	var meta struct {
		DisplayName string `json:"displayName"`
	}
	if err := r.client.doJSON(req, token, &meta); err != nil {
		return "", err
	}
	if meta.DisplayName == "" {
		meta.DisplayName = "Unknown"
	}
	return fmt.Sprintf("Conexión exitosa. Lista: %q", meta.DisplayName), nil
}
