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
	"net/url"
	"time"
)

type User struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Username        string  `json:"username"`
	Description     *string `json:"description,omitempty"`
	Location        *string `json:"location,omitempty"`
	ProfileImageURL *string `json:"profile_image_url,omitempty"`
	Protected       *bool   `json:"protected,omitempty"`
	PublicMetrics   *struct {
		FollowersCount int64 `json:"followers_count,omitempty"`
		FollowingCount int64 `json:"following_count,omitempty"`
		TweetCount     int64 `json:"tweet_count,omitempty"`
		ListedCount    int64 `json:"listed_count,omitempty"`
	} `json:"public_metrics,omitempty"`
	URL       *string    `json:"url,omitempty"`
	Verified  *bool      `json:"verified,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

type UserResponse struct {
	Data *User `json:"data,omitempty"`
}

type UserByUsernameRequest struct {
	Username   string
	UserFields []string
}

func (c *Client) GetUserByUsername(ctx context.Context, req UserByUsernameRequest) (*UserResponse, *RateLimit, error) {
	if req.Username == "" {
		return nil, nil, errors.New("invalid parameter")
	}

	params := make(map[string]string)

	setRequestParam(params, "user.fields", req.UserFields)

	var r UserResponse
	rate, err := c.Get(ctx, "users/by/username/"+url.PathEscape(req.Username), params, &r)

	// the API reports unknown usernames through the errors array, not the
	// HTTP status
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && r.Data == nil && apiErr.StatusCode/100 != 5 {
			return nil, rate, &NotFoundError{Resource: "user", Ident: "@" + req.Username}
		}
		return nil, rate, err
	}

	if r.Data == nil {
		return nil, rate, &NotFoundError{Resource: "user", Ident: "@" + req.Username}
	}

	return &r, rate, nil
}
