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
	"net/url"
	"strconv"
	"time"
)

type Tweet struct {
	ID              string     `json:"id"`
	Text            string     `json:"text"`
	AuthorID        *string    `json:"author_id,omitempty"`
	ConversationID  *string    `json:"conversation_id,omitempty"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
	InReplyToUserID *string    `json:"in_reply_to_user_id,omitempty"`
	Lang            *string    `json:"lang,omitempty"`
	NoteTweet       *struct {
		Text string `json:"text"`
	} `json:"note_tweet,omitempty"`
	PublicMetrics *struct {
		RetweetCount int64 `json:"retweet_count"`
		ReplyCount   int64 `json:"reply_count"`
		LikeCount    int64 `json:"like_count"`
		QuoteCount   int64 `json:"quote_count"`
	} `json:"public_metrics,omitempty"`
	ReferencedTweets *[]struct {
		Type string `json:"type"`
		ID   string `json:"id"`
	} `json:"referenced_tweets,omitempty"`
	Entities *struct {
		URLs *[]struct {
			URL         string `json:"url"`
			ExpandedURL string `json:"expanded_url"`
			DisplayURL  string `json:"display_url"`
		} `json:"urls,omitempty"`
	} `json:"entities,omitempty"`
}

type Includes struct {
	Users  *[]User  `json:"users,omitempty"`
	Tweets *[]Tweet `json:"tweets,omitempty"`
}

type TweetsResponse struct {
	Data     []Tweet   `json:"data"`
	Includes *Includes `json:"includes,omitempty"`
	Meta     *struct {
		ResultCount int     `json:"result_count"`
		NewestID    *string `json:"newest_id,omitempty"`
		OldestID    *string `json:"oldest_id,omitempty"`
		NextToken   *string `json:"next_token,omitempty"`
	} `json:"meta,omitempty"`
}

type TweetResponse struct {
	Data     *Tweet    `json:"data,omitempty"`
	Includes *Includes `json:"includes,omitempty"`
}

type TweetLookupRequest struct {
	ID          string
	TweetFields []string
	Expansions  []string
	UserFields  []string
}

type UserTweetsRequest struct {
	UserID      string
	MaxResults  int
	TweetFields []string
	Expansions  []string
	UserFields  []string
}

type SearchRecentRequest struct {
	Query       string
	MaxResults  int
	TweetFields []string
	Expansions  []string
	UserFields  []string
}

type HomeTimelineRequest struct {
	UserID      string
	MaxResults  int
	TweetFields []string
	Expansions  []string
	UserFields  []string
}

func (c *Client) GetTweet(ctx context.Context, req TweetLookupRequest) (*TweetResponse, *RateLimit, error) {
	if req.ID == "" {
		return nil, nil, errors.New("invalid parameter")
	}

	params := make(map[string]string)

	setRequestParam(params, "tweet.fields", req.TweetFields)
	setRequestParam(params, "expansions", req.Expansions)
	setRequestParam(params, "user.fields", req.UserFields)

	var r TweetResponse
	rate, err := c.Get(ctx, "tweets/"+url.PathEscape(req.ID), params, &r)

	if err != nil {
		return nil, rate, err
	}

	if r.Data == nil {
		return nil, rate, &NotFoundError{Resource: "tweet", Ident: req.ID}
	}

	return &r, rate, nil
}

func (c *Client) GetUserTweets(ctx context.Context, req UserTweetsRequest) (*TweetsResponse, *RateLimit, error) {
	if req.UserID == "" {
		return nil, nil, errors.New("invalid parameter")
	}

	params := make(map[string]string)

	if req.MaxResults > 0 {
		params["max_results"] = strconv.Itoa(clampCount(req.MaxResults, 5, 100))
	}
	setRequestParam(params, "tweet.fields", req.TweetFields)
	setRequestParam(params, "expansions", req.Expansions)
	setRequestParam(params, "user.fields", req.UserFields)

	var r TweetsResponse
	rate, err := c.Get(ctx, fmt.Sprintf("users/%s/tweets", url.PathEscape(req.UserID)), params, &r)

	if err != nil {
		return nil, rate, err
	}

	return &r, rate, nil
}

func (c *Client) SearchRecentTweets(ctx context.Context, req SearchRecentRequest) (*TweetsResponse, *RateLimit, error) {
	if req.Query == "" {
		return nil, nil, errors.New("invalid parameter")
	}

	params := make(map[string]string)

	params["query"] = req.Query
	if req.MaxResults > 0 {
		params["max_results"] = strconv.Itoa(clampCount(req.MaxResults, 10, 100))
	}
	setRequestParam(params, "tweet.fields", req.TweetFields)
	setRequestParam(params, "expansions", req.Expansions)
	setRequestParam(params, "user.fields", req.UserFields)

	var r TweetsResponse
	rate, err := c.Get(ctx, "tweets/search/recent", params, &r)

	if err != nil {
		return nil, rate, err
	}

	return &r, rate, nil
}

// GetHomeTimeline returns the reverse-chronological home timeline. Requires a
// user-context client.
func (c *Client) GetHomeTimeline(ctx context.Context, req HomeTimelineRequest) (*TweetsResponse, *RateLimit, error) {
	if req.UserID == "" {
		return nil, nil, errors.New("invalid parameter")
	}

	params := make(map[string]string)

	if req.MaxResults > 0 {
		params["max_results"] = strconv.Itoa(clampCount(req.MaxResults, 1, 100))
	}
	setRequestParam(params, "tweet.fields", req.TweetFields)
	setRequestParam(params, "expansions", req.Expansions)
	setRequestParam(params, "user.fields", req.UserFields)

	var r TweetsResponse
	rate, err := c.Get(ctx, fmt.Sprintf("users/%s/timelines/reverse_chronological", url.PathEscape(req.UserID)), params, &r)

	if err != nil {
		return nil, rate, err
	}

	return &r, rate, nil
}

func clampCount(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
