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
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient("test-bearer")
	client.baseURL = server.URL + "/"
	return client, server
}

func TestGetTweet(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tweets/100", r.URL.Path)
		assert.Equal(t, "Bearer test-bearer", r.Header.Get("Authorization"))
		assert.Equal(t, "created_at,public_metrics", r.URL.Query().Get("tweet.fields"))

		w.Header().Set("X-Rate-Limit-Limit", "75")
		w.Header().Set("X-Rate-Limit-Remaining", "74")
		fmt.Fprint(w, `{
			"data": {"id": "100", "text": "hello", "author_id": "1"},
			"includes": {"users": [{"id": "1", "name": "Alice", "username": "alice"}]}
		}`)
	})
	defer server.Close()

	resp, rate, err := client.GetTweet(context.Background(), TweetLookupRequest{
		ID:          "100",
		TweetFields: []string{"created_at", "public_metrics"},
	})
	require.NoError(t, err)

	require.NotNil(t, resp.Data)
	assert.Equal(t, "100", resp.Data.ID)
	assert.Equal(t, "hello", resp.Data.Text)
	require.NotNil(t, resp.Includes)
	require.NotNil(t, resp.Includes.Users)
	assert.Equal(t, "alice", (*resp.Includes.Users)[0].Username)

	require.NotNil(t, rate)
	assert.Equal(t, 75, rate.Limit)
	assert.Equal(t, 74, rate.Remaining)
}

func TestGetTweetEmptyID(t *testing.T) {
	client := NewClient("test-bearer")
	_, _, err := client.GetTweet(context.Background(), TweetLookupRequest{})
	assert.Error(t, err)
}

func TestGetUserByUsernameNotFound(t *testing.T) {
	// unknown usernames come back as HTTP 200 with an errors array
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"errors": [{"title": "Not Found Error", "type": "https://api.twitter.com/2/problems/resource-not-found"}]}`)
	})
	defer server.Close()

	_, _, err := client.GetUserByUsername(context.Background(), UserByUsernameRequest{Username: "nobody"})
	require.Error(t, err)

	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "user", notFound.Resource)
	assert.Equal(t, "@nobody", notFound.Ident)
	assert.Contains(t, err.Error(), "@nobody")
}

func TestServerErrorSurfacesAsAPIError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"errors": [{"title": "Internal Error"}]}`)
	})
	defer server.Close()

	_, _, err := client.GetUserByUsername(context.Background(), UserByUsernameRequest{Username: "alice"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
}

func TestSearchClampsMaxResults(t *testing.T) {
	var got string
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query().Get("max_results")
		fmt.Fprint(w, `{"data": [], "meta": {"result_count": 0}}`)
	})
	defer server.Close()

	_, _, err := client.SearchRecentTweets(context.Background(), SearchRecentRequest{Query: "golang", MaxResults: 5})
	require.NoError(t, err)
	assert.Equal(t, "10", got)

	_, _, err = client.SearchRecentTweets(context.Background(), SearchRecentRequest{Query: "golang", MaxResults: 500})
	require.NoError(t, err)
	assert.Equal(t, "100", got)
}

func TestUserTweetsClampsMaxResults(t *testing.T) {
	var got string
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query().Get("max_results")
		fmt.Fprint(w, `{"data": []}`)
	})
	defer server.Close()

	_, _, err := client.GetUserTweets(context.Background(), UserTweetsRequest{UserID: "1", MaxResults: 2})
	require.NoError(t, err)
	assert.Equal(t, "5", got)
}

func TestRetryAfterRateLimit(t *testing.T) {
	var calls int
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("X-Rate-Limit-Reset", fmt.Sprint(time.Now().Unix()))
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"errors": [{"title": "Too Many Requests"}]}`)
			return
		}
		fmt.Fprint(w, `{"data": {"id": "100", "text": "hello"}}`)
	})
	defer server.Close()

	resp, _, err := client.GetTweet(context.Background(), TweetLookupRequest{ID: "100"})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "hello", resp.Data.Text)
}

func TestClampCount(t *testing.T) {
	assert.Equal(t, 10, clampCount(3, 10, 100))
	assert.Equal(t, 100, clampCount(300, 10, 100))
	assert.Equal(t, 50, clampCount(50, 10, 100))
}
