package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// DecodeList decodes a response that is either a bare JSON array or an
// object holding the array under one of keys. The first key present wins.
// An object with none of the keys decodes to an empty slice.
func DecodeList[T any](body []byte, keys ...string) ([]T, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, nil
	}

	if body[0] == '[' {
		var items []T
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		return items, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	for _, key := range keys {
		raw, ok := envelope[key]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			continue
		}
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decode %q: %w", key, err)
		}
		return items, nil
	}
	return nil, nil
}

// GetList performs a GET and decodes the body with DecodeList
func GetList[T any](ctx context.Context, c *Client, path string, params url.Values, keys ...string) ([]T, error) {
	resp, err := c.Do(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return nil, err
	}
	if !isSuccess(resp.StatusCode) {
		return nil, newStatusError(http.MethodGet, path, resp)
	}
	return DecodeList[T](resp.Body, keys...)
}

// PostList performs a POST and decodes the body with DecodeList
func PostList[T any](ctx context.Context, c *Client, path string, payload any, keys ...string) ([]T, error) {
	resp, err := c.Do(ctx, http.MethodPost, path, nil, payload)
	if err != nil {
		return nil, err
	}
	if !isSuccess(resp.StatusCode) {
		return nil, newStatusError(http.MethodPost, path, resp)
	}
	return DecodeList[T](resp.Body, keys...)
}
