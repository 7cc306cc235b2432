package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const basePath = "/api/v1/academic"

// Client talks to the external academic backend over its REST contract.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Probes

func (c *Client) AdminByEmail(ctx context.Context, email string) (*Admin, error) {
	var admin Admin
	if err := c.get(ctx, basePath+"/admin/by-email/"+url.PathEscape(email), &admin); err != nil {
		return nil, err
	}
	return &admin, nil
}

func (c *Client) StudentByEmail(ctx context.Context, email string) (*Student, error) {
	var student Student
	if err := c.get(ctx, basePath+"/student/by-email/"+url.PathEscape(email), &student); err != nil {
		return nil, err
	}
	return &student, nil
}

// Linking

func (c *Client) LinkAdmin(ctx context.Context, email, externalID string) error {
	return c.post(ctx, basePath+"/admin/link-clerk", linkRequest{Email: email, ClerkUserID: externalID}, nil)
}

func (c *Client) LinkStudent(ctx context.Context, email, externalID string) error {
	return c.post(ctx, basePath+"/student/link-clerk", linkRequest{Email: email, ClerkUserID: externalID}, nil)
}

// Provisioning

func (c *Client) CreateStudent(ctx context.Context, in NewStudent) (*Student, error) {
	var student Student
	if err := c.post(ctx, basePath+"/student", in, &student); err != nil {
		return nil, err
	}
	return &student, nil
}

// Entity fetch

func (c *Client) StudentByClerkID(ctx context.Context, externalID string) (*Student, error) {
	var student Student
	if err := c.get(ctx, basePath+"/student/by-clerk/"+url.PathEscape(externalID), &student); err != nil {
		return nil, err
	}
	return &student, nil
}

func (c *Client) AdminByClerkID(ctx context.Context, externalID string) (*Admin, error) {
	var admin Admin
	if err := c.get(ctx, basePath+"/admin/by-clerk/"+url.PathEscape(externalID), &admin); err != nil {
		return nil, err
	}
	return &admin, nil
}

// Transport

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		return ErrConflict
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &StatusError{Status: resp.StatusCode, Message: errorMessage(resp.Body)}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func errorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(data))
}
