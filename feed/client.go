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

package feed

import (
	"context"
	"sort"
	"time"

	twitter11 "github.com/dghubble/go-twitter/twitter"
	"go.uber.org/zap"

	"github.com/qitoi/birdview/config"
	"github.com/qitoi/birdview/oauth1"
	"github.com/qitoi/birdview/twitter"
)

var (
	tweetFields = []string{
		"created_at",
		"public_metrics",
		"conversation_id",
		"referenced_tweets",
		"entities",
		"in_reply_to_user_id",
		"note_tweet",
	}
	userFields = []string{"username", "name", "public_metrics", "profile_image_url"}
	expansions = []string{
		"author_id",
		"referenced_tweets.id",
		"referenced_tweets.id.author_id",
	}
)

// Client is the read-only gateway: each method is one blocking round-trip
// (or a short fixed sequence of them) followed by normalization.
type Client struct {
	app    *twitter.Client // bearer, app-only endpoints
	user   *twitter.Client // OAuth1-signed, user-context endpoints
	v11    *twitter11.Client
	logger *zap.SugaredLogger

	me *twitter11.User
}

func NewClient(ctx context.Context, creds *config.Credentials, logger *zap.SugaredLogger) *Client {
	auth := oauth1.NewAuth(creds.ConsumerKey, creds.ConsumerSecret)
	httpClient := auth.Client(ctx, creds.AccessToken, creds.AccessTokenSecret)

	return &Client{
		app:    twitter.NewClient(creds.BearerToken),
		user:   twitter.NewUserClient(httpClient),
		v11:    twitter11.NewClient(httpClient),
		logger: logger,
	}
}

// Me returns the authenticated account, cached for the process lifetime.
func (c *Client) Me(ctx context.Context) (*Profile, error) {
	user, err := c.verifyCredentials(ctx)
	if err != nil {
		return nil, err
	}
	return &Profile{
		Username:  user.ScreenName,
		Name:      user.Name,
		Followers: int64(user.FollowersCount),
		Following: int64(user.FriendsCount),
		Posts:     int64(user.StatusesCount),
	}, nil
}

func (c *Client) verifyCredentials(_ context.Context) (*twitter11.User, error) {
	if c.me != nil {
		return c.me, nil
	}

	includeEntities := false
	skipStatus := true
	user, _, err := c.v11.Accounts.VerifyCredentials(&twitter11.AccountVerifyParams{
		IncludeEntities: &includeEntities,
		SkipStatus:      &skipStatus,
	})
	if err != nil {
		return nil, err
	}

	c.me = user
	return user, nil
}

// Timeline returns the home timeline, newest first.
func (c *Client) Timeline(ctx context.Context, count int) ([]Post, error) {
	me, err := c.verifyCredentials(ctx)
	if err != nil {
		return nil, err
	}

	resp, rate, err := c.user.GetHomeTimeline(ctx, twitter.HomeTimelineRequest{
		UserID:      me.IDStr,
		MaxResults:  count,
		TweetFields: tweetFields,
		Expansions:  expansions,
		UserFields:  userFields,
	})
	c.logRate("timeline", rate)
	if err != nil {
		return nil, err
	}

	return Normalize(resp.Data, resp.Includes), nil
}

// UserPosts returns a user's recent posts. An unknown username surfaces as a
// twitter.NotFoundError.
func (c *Client) UserPosts(ctx context.Context, username string, count int) ([]Post, error) {
	userResp, rate, err := c.app.GetUserByUsername(ctx, twitter.UserByUsernameRequest{
		Username:   username,
		UserFields: userFields,
	})
	c.logRate("user lookup", rate)
	if err != nil {
		return nil, err
	}

	resp, rate, err := c.app.GetUserTweets(ctx, twitter.UserTweetsRequest{
		UserID:      userResp.Data.ID,
		MaxResults:  count,
		TweetFields: tweetFields,
		Expansions:  expansions,
		UserFields:  userFields,
	})
	c.logRate("user tweets", rate)
	if err != nil {
		return nil, err
	}

	return Normalize(resp.Data, resp.Includes), nil
}

// Search returns recent posts matching the query.
func (c *Client) Search(ctx context.Context, query string, count int) ([]Post, error) {
	resp, rate, err := c.app.SearchRecentTweets(ctx, twitter.SearchRecentRequest{
		Query:       query,
		MaxResults:  count,
		TweetFields: tweetFields,
		Expansions:  expansions,
		UserFields:  userFields,
	})
	c.logRate("search", rate)
	if err != nil {
		return nil, err
	}

	return Normalize(resp.Data, resp.Includes), nil
}

// Thread returns a post followed by its conversation replies in time order.
// A failed reply search degrades to the root post alone.
func (c *Client) Thread(ctx context.Context, tweetID string) ([]Post, error) {
	rootResp, rate, err := c.app.GetTweet(ctx, twitter.TweetLookupRequest{
		ID:          tweetID,
		TweetFields: tweetFields,
		Expansions:  expansions,
		UserFields:  userFields,
	})
	c.logRate("tweet lookup", rate)
	if err != nil {
		return nil, err
	}

	root := NormalizeOne(rootResp.Data, rootResp.Includes)

	conversationID := tweetID
	if rootResp.Data.ConversationID != nil {
		conversationID = *rootResp.Data.ConversationID
	}

	var replies []Post
	resp, rate, err := c.app.SearchRecentTweets(ctx, twitter.SearchRecentRequest{
		Query:       "conversation_id:" + conversationID,
		MaxResults:  100,
		TweetFields: tweetFields,
		Expansions:  expansions,
		UserFields:  userFields,
	})
	c.logRate("thread search", rate)
	if err != nil {
		c.logger.Debugw("thread reply search failed", "conversation_id", conversationID, "error", err)
	} else {
		replies = Normalize(resp.Data, resp.Includes)
	}

	sort.SliceStable(replies, func(i, j int) bool {
		return postTime(&replies[i]).Before(postTime(&replies[j]))
	})

	return append(root, replies...), nil
}

// UserProfile returns profile header info for a username.
func (c *Client) UserProfile(ctx context.Context, username string) (*Profile, error) {
	resp, rate, err := c.app.GetUserByUsername(ctx, twitter.UserByUsernameRequest{
		Username:   username,
		UserFields: userFields,
	})
	c.logRate("user lookup", rate)
	if err != nil {
		return nil, err
	}

	u := resp.Data
	profile := &Profile{
		Username: u.Username,
		Name:     u.Name,
	}
	if u.PublicMetrics != nil {
		profile.Followers = u.PublicMetrics.FollowersCount
		profile.Following = u.PublicMetrics.FollowingCount
		profile.Posts = u.PublicMetrics.TweetCount
	}
	return profile, nil
}

func (c *Client) logRate(endpoint string, rate *twitter.RateLimit) {
	if rate == nil || c.logger == nil {
		return
	}
	c.logger.Debugw("api call", "endpoint", endpoint, "rate_remaining", rate.Remaining, "rate_reset", rate.Reset)
}

func postTime(p *Post) time.Time {
	if p.CreatedAt == nil {
		return time.Time{}
	}
	return *p.CreatedAt
}
