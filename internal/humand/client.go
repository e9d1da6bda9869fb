// Package humand is the HR platform client: segmentations, users, folders,
// and per-user document upload.
//
// The client is constructed explicitly and passed where needed; there is no
// package-level singleton. Retries on 5xx and connection errors are handled
// by go-retryablehttp, responses are cached behind the injectable Cache
// interface, and all platform payloads are mapped to canonical structs at
// this boundary.
package humand

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"go-duplicatepdf/internal/config"
	"go-duplicatepdf/internal/coords"
)

// APIError carries the upstream HTTP status for per-document reporting.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("platform returned %d: %s", e.Status, e.Body)
}

type Client struct {
	baseURL string
	token   string
	http    *retryablehttp.Client
	cache   Cache
	redash  config.Redash
}

// NewClient builds a platform client from configuration. A nil cache gets
// the configured default: a TTL cache when caching is enabled, NopCache
// otherwise.
func NewClient(cfg config.Humand, redash config.Redash, cache Cache) *Client {
	if cache == nil {
		if cfg.CacheEnabled {
			cache = NewTTLCache(cfg.CacheTTL)
		} else {
			cache = NopCache{}
		}
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.MaxRetries
	rc.RetryWaitMin = cfg.RetryDelay
	rc.RetryWaitMax = cfg.RetryDelay * 8
	rc.HTTPClient.Timeout = cfg.Timeout
	rc.Logger = nil

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http:    rc,
		cache:   cache,
		redash:  redash,
	}
}

func (c *Client) ClearCache() { c.cache.Clear() }

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Basic "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &APIError{Status: resp.StatusCode, Body: string(body)}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Segmentations lists segment groups that have at least one item.
func (c *Client) Segmentations(ctx context.Context) ([]SegmentationGroup, error) {
	const cacheKey = "segmentations"
	if v, ok := c.cache.Get(cacheKey); ok {
		return v.([]SegmentationGroup), nil
	}

	var raw []rawSegmentationGroup
	if err := c.get(ctx, "/segmentations", nil, &raw); err != nil {
		return nil, fmt.Errorf("fetching segmentations: %w", err)
	}

	groups := make([]SegmentationGroup, 0, len(raw))
	for _, g := range raw {
		if len(g.Items) == 0 {
			continue
		}
		group := SegmentationGroup{
			Group:       g.ID.String(),
			GroupName:   firstNonEmpty(g.SharedID, g.Name, "Group_"+g.ID.String()),
			DisplayName: firstNonEmpty(g.Name, "Group "+g.ID.String()),
			Items:       make([]SegmentationItem, 0, len(g.Items)),
		}
		for _, it := range g.Items {
			group.Items = append(group.Items, SegmentationItem{
				Name:        it.ID.String(),
				ItemName:    firstNonEmpty(it.SharedID, it.Name, "Item_"+it.ID.String()),
				DisplayName: firstNonEmpty(it.Name, "Item "+it.ID.String()),
				UserCount:   it.UsersCount,
			})
		}
		groups = append(groups, group)
	}

	c.cache.Set(cacheKey, groups)
	return groups, nil
}

// SegmentationUsers fetches the members of the given segmentation items.
func (c *Client) SegmentationUsers(ctx context.Context, itemIDs []string, limit int) ([]User, error) {
	if limit <= 0 {
		limit = 500
	}
	ids := strings.Join(itemIDs, ",")
	cacheKey := fmt.Sprintf("users_%s_%d", ids, limit)
	if v, ok := c.cache.Get(cacheKey); ok {
		return v.([]User), nil
	}

	q := url.Values{}
	q.Set("segmentationItemIds", ids)
	q.Set("limit", strconv.Itoa(limit))

	var raw rawUserPage
	if err := c.get(ctx, "/segmentations/users", q, &raw); err != nil {
		return nil, fmt.Errorf("fetching segmentation users: %w", err)
	}

	users := make([]User, 0, len(raw.Items))
	for _, u := range raw.Items {
		users = append(users, User{
			ID:                 u.ID.String(),
			EmployeeInternalID: u.EmployeeInternalID,
			FirstName:          u.FirstName,
			LastName:           u.LastName,
			FullName:           strings.TrimSpace(u.FirstName + " " + u.LastName),
			Email:              u.Email,
			Active:             true,
		})
	}

	c.cache.Set(cacheKey, users)
	return users, nil
}

// UsersForSegmentations fetches the union of members across items, with
// duplicates removed by user identity.
func (c *Client) UsersForSegmentations(ctx context.Context, itemIDs []string) ([]User, error) {
	if len(itemIDs) == 0 {
		return []User{}, nil
	}
	users, err := c.SegmentationUsers(ctx, itemIDs, 0)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(users))
	unique := make([]User, 0, len(users))
	for _, u := range users {
		key := firstNonEmpty(u.ID, u.EmployeeInternalID)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, u)
	}
	return unique, nil
}

// Folders lists document folders via the Redash query. The query is
// refreshed first; a refresh failure is logged and the previous results are
// used.
func (c *Client) Folders(ctx context.Context) ([]Folder, error) {
	const cacheKey = "folders"
	if v, ok := c.cache.Get(cacheKey); ok {
		return v.([]Folder), nil
	}

	c.refreshFoldersQuery(ctx)

	u := fmt.Sprintf("%s/%s/results.json?%s", strings.TrimRight(c.redash.BaseURL, "/"),
		c.redash.FoldersQueryID, url.Values{"api_key": {c.redash.QueryAPIKey}, "max_age": {"0"}}.Encode())
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Key "+c.redash.QueryAPIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching folders: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, &APIError{Status: resp.StatusCode, Body: string(body)}
	}

	var raw redashResult
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding folders: %w", err)
	}

	folders := make([]Folder, 0, len(raw.QueryResult.Data.Rows))
	for i, row := range raw.QueryResult.Data.Rows {
		id := firstNonEmpty(row.FolderID.String(), row.ID.String())
		if id == "" {
			continue
		}
		folders = append(folders, Folder{
			ID:          id,
			Name:        firstNonEmpty(row.FolderName, row.Name, fmt.Sprintf("Folder_%d", i+1)),
			Description: row.Description,
			ParentID:    row.ParentID.String(),
			CreatedAt:   row.CreatedAt,
		})
	}

	c.cache.Set(cacheKey, folders)
	return folders, nil
}

func (c *Client) refreshFoldersQuery(ctx context.Context) {
	u := fmt.Sprintf("%s/%s/refresh", strings.TrimRight(c.redash.BaseURL, "/"), c.redash.FoldersQueryID)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return
	}
	req.Header.Set("Authorization", "Key "+c.redash.QueryAPIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("folders query refresh failed: %v", err)
		return
	}
	resp.Body.Close()

	// Give the refresh a moment to complete before reading results.
	select {
	case <-time.After(c.redash.RefreshWait):
	case <-ctx.Done():
	}
}

// SignatureStatus values accepted by the platform.
const (
	SignatureNotNeeded = "SIGNATURE_NOT_NEEDED"
	SignaturePending   = "PENDING"
)

// UploadOptions controls one document upload.
type UploadOptions struct {
	FolderID         string
	SignatureStatus  string
	Coordinates      *coords.NormalizedArea
	SendNotification bool
}

// UploadResult is the platform's response to a successful upload.
type UploadResult struct {
	Status int
	Data   json.RawMessage
}

// UploadDocument pushes one generated PDF into a user's folder.
func (c *Client) UploadDocument(ctx context.Context, userID string, file []byte, filename string, opts UploadOptions) (*UploadResult, error) {
	if opts.SignatureStatus == "" {
		opts.SignatureStatus = SignatureNotNeeded
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	h.Set("Content-Type", "application/pdf")
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(file); err != nil {
		return nil, err
	}

	fields := map[string]string{
		"folderId":          opts.FolderID,
		"name":              filename,
		"sendNotification":  strconv.FormatBool(opts.SendNotification),
		"signatureStatus":   opts.SignatureStatus,
		"allowDisagreement": "false",
	}
	if opts.Coordinates != nil && opts.SignatureStatus == SignaturePending {
		coordsJSON, err := json.Marshal([]coords.NormalizedArea{*opts.Coordinates})
		if err != nil {
			return nil, err
		}
		fields["signatureCoordinates"] = string(coordsJSON)
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/users/%s/documents", c.baseURL, url.PathEscape(userID))
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, u, body.Bytes())
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Basic "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Body: string(respBody)}
	}
	return &UploadResult{Status: resp.StatusCode, Data: respBody}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
