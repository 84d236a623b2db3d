/*
 *  Copyright 2025 qitoi
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 */

package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	twitterAPIv2 = "https://api.twitter.com/2/"
)

// Client is a Twitter API v2 client. Requests carry the bearer token unless
// an OAuth1-signed http.Client is supplied, in which case the transport signs
// them with the user context.
type Client struct {
	bearer     string
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string // overridable in tests
}

type RateLimit struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	Reset     time.Time `json:"reset"`
}

type Errors []struct {
	Message string `json:"message"`
	Title   string `json:"title"`
	Type    string `json:"type"`
}

type APIError struct {
	Errors     Errors
	StatusCode int
	Status     string
}

func (e *APIError) Error() string {
	return e.Status
}

// NotFoundError reports a lookup for a named resource that returned no data.
type NotFoundError struct {
	Resource string
	Ident    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Ident)
}

func NewClient(bearer string) *Client {
	return &Client{
		bearer:  bearer,
		limiter: newLimiter(),
	}
}

// NewUserClient builds a client over an OAuth1-signed http.Client for
// endpoints that require a user context.
func NewUserClient(httpClient *http.Client) *Client {
	return &Client{
		httpClient: httpClient,
		limiter:    newLimiter(),
	}
}

func newLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Limit(2), 5)
}

func (c *Client) Get(ctx context.Context, api string, params map[string]string, out interface{}) (*RateLimit, error) {
	base := c.baseURL
	if base == "" {
		base = twitterAPIv2
	}

	req, err := http.NewRequest("GET", base+api, nil)
	if err != nil {
		return nil, err
	}

	req = req.WithContext(ctx)

	q := req.URL.Query()
	for key, value := range params {
		q.Add(key, value)
	}

	req.URL.RawQuery = q.Encode()

	return c.execRequest(req, out)
}

func (c *Client) execRequest(req *http.Request, out interface{}) (*RateLimit, error) {
	ctx := req.Context()

	if c.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearer)
	}

	client := c.httpClient
	if client == nil {
		client = &http.Client{}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	// on exhaustion, block until the window resets and retry once
	if resp.StatusCode == http.StatusTooManyRequests {
		wait := resetWait(resp)
		resp.Body.Close()
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		resp, err = client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}
	}
	defer resp.Body.Close()

	rate, err := parseRateLimit(resp)
	if err != nil {
		return nil, err
	}

	err = parseResponse(resp, out)
	if err != nil {
		if apiErr, ok := err.(*APIError); ok {
			if apiErr.StatusCode/100 == 5 {
				return nil, apiErr
			}
		}
	}

	return rate, err
}

func parseRateLimit(resp *http.Response) (*RateLimit, error) {
	rate := &RateLimit{}
	var err error

	if ls := resp.Header.Get("X-Rate-Limit-Limit"); ls != "" {
		rate.Limit, err = strconv.Atoi(ls)
		if err != nil {
			return nil, err
		}
	}

	if rs := resp.Header.Get("X-Rate-Limit-Remaining"); rs != "" {
		rate.Remaining, err = strconv.Atoi(rs)
		if err != nil {
			return nil, err
		}
	}

	if rs := resp.Header.Get("X-Rate-Limit-Reset"); rs != "" {
		rn, err := strconv.Atoi(rs)
		if err != nil {
			return nil, err
		}
		rate.Reset = time.Unix(int64(rn), 0)
	}

	return rate, nil
}

func resetWait(resp *http.Response) time.Duration {
	if rs := resp.Header.Get("X-Rate-Limit-Reset"); rs != "" {
		if rn, err := strconv.Atoi(rs); err == nil {
			if d := time.Until(time.Unix(int64(rn), 0)); d > 0 {
				return d
			}
		}
	}
	return time.Second
}

func parseResponse(resp *http.Response, out interface{}) error {
	var m map[string]json.RawMessage

	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return err
	}

	var errors Errors
	if raw, ok := m["errors"]; ok {
		if err := json.Unmarshal(raw, &errors); err != nil {
			return err
		}
		delete(m, "errors")
	}

	b, err := json.Marshal(m)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(b, out); err != nil {
		return err
	}

	status := resp.StatusCode / 100
	if len(errors) > 0 || status == 4 || status == 5 {
		return &APIError{
			Errors:     errors,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}

	return nil
}

func setRequestParam(m map[string]string, key string, values []string) {
	if len(values) > 0 {
		m[key] = strings.Join(values, ",")
	}
}
