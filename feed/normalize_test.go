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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qitoi/birdview/twitter"
)

func decodeResponse(t *testing.T, body string) *twitter.TweetsResponse {
	t.Helper()
	var resp twitter.TweetsResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	return &resp
}

func TestNormalizeEmpty(t *testing.T) {
	posts := Normalize(nil, nil)
	assert.Empty(t, posts)
}

func TestNormalizeSimple(t *testing.T) {
	resp := decodeResponse(t, `{
		"data": [{
			"id": "100",
			"text": "hello world",
			"author_id": "1",
			"conversation_id": "100",
			"created_at": "2026-08-30T12:00:00Z",
			"public_metrics": {"retweet_count": 2, "reply_count": 3, "like_count": 40, "quote_count": 1}
		}],
		"includes": {
			"users": [{"id": "1", "name": "Alice", "username": "alice"}]
		}
	}`)

	posts := Normalize(resp.Data, resp.Includes)
	require.Len(t, posts, 1)

	p := posts[0]
	assert.Equal(t, "100", p.ID)
	assert.Equal(t, "hello world", p.Text)
	assert.Equal(t, "alice", p.AuthorHandle)
	assert.Equal(t, "Alice", p.AuthorName)
	assert.Equal(t, int64(40), p.Likes)
	assert.Equal(t, int64(2), p.Retweets)
	assert.Equal(t, int64(3), p.Replies)
	assert.Equal(t, int64(1), p.Quotes)
	assert.Equal(t, "100", p.ConversationID)
	assert.False(t, p.IsRetweet)
	assert.False(t, p.IsReply)
	assert.False(t, p.IsQuote)
	require.NotNil(t, p.CreatedAt)
	assert.Equal(t, "https://x.com/alice/status/100", p.Permalink())
}

func TestNormalizeRetweetResolvesOriginal(t *testing.T) {
	resp := decodeResponse(t, `{
		"data": [{
			"id": "200",
			"text": "RT @alice: hello wor…",
			"author_id": "2",
			"conversation_id": "200",
			"created_at": "2026-08-31T09:00:00Z",
			"public_metrics": {"retweet_count": 0, "reply_count": 0, "like_count": 0, "quote_count": 0},
			"referenced_tweets": [{"type": "retweeted", "id": "100"}]
		}],
		"includes": {
			"users": [
				{"id": "1", "name": "Alice", "username": "alice"},
				{"id": "2", "name": "Bob", "username": "bob"}
			],
			"tweets": [{
				"id": "100",
				"text": "hello world, the full text",
				"author_id": "1",
				"created_at": "2026-08-30T12:00:00Z",
				"public_metrics": {"retweet_count": 7, "reply_count": 1, "like_count": 55, "quote_count": 2}
			}]
		}
	}`)

	posts := Normalize(resp.Data, resp.Includes)
	require.Len(t, posts, 1)

	p := posts[0]
	assert.True(t, p.IsRetweet)
	assert.Equal(t, "bob", p.RetweetedBy)
	assert.Equal(t, "100", p.ID)
	assert.Equal(t, "hello world, the full text", p.Text)
	assert.Equal(t, "alice", p.AuthorHandle)
	assert.Equal(t, int64(55), p.Likes)
	assert.Equal(t, int64(7), p.Retweets)
	// the wrapper's conversation id is kept even when the original wins
	assert.Equal(t, "200", p.ConversationID)
	assert.Equal(t, "https://x.com/alice/status/100", p.Permalink())
}

func TestNormalizeRetweetMissingReference(t *testing.T) {
	resp := decodeResponse(t, `{
		"data": [{
			"id": "200",
			"text": "RT @alice: hello wor…",
			"author_id": "2",
			"referenced_tweets": [{"type": "retweeted", "id": "100"}]
		}],
		"includes": {
			"users": [{"id": "2", "name": "Bob", "username": "bob"}]
		}
	}`)

	posts := Normalize(resp.Data, resp.Includes)
	require.Len(t, posts, 1)

	// degrades to the wrapper tweet rather than failing
	p := posts[0]
	assert.True(t, p.IsRetweet)
	assert.Equal(t, "bob", p.RetweetedBy)
	assert.Equal(t, "200", p.ID)
	assert.Equal(t, "RT @alice: hello wor…", p.Text)
	assert.Equal(t, "bob", p.AuthorHandle)
}

func TestNormalizeQuote(t *testing.T) {
	resp := decodeResponse(t, `{
		"data": [{
			"id": "300",
			"text": "worth a read",
			"author_id": "2",
			"referenced_tweets": [{"type": "quoted", "id": "100"}],
			"public_metrics": {"retweet_count": 1, "reply_count": 0, "like_count": 9, "quote_count": 0}
		}],
		"includes": {
			"users": [
				{"id": "1", "name": "Alice", "username": "alice"},
				{"id": "2", "name": "Bob", "username": "bob"}
			],
			"tweets": [{
				"id": "100",
				"text": "original take",
				"author_id": "1",
				"public_metrics": {"retweet_count": 3, "reply_count": 2, "like_count": 20, "quote_count": 4}
			}]
		}
	}`)

	posts := Normalize(resp.Data, resp.Includes)
	require.Len(t, posts, 1)

	p := posts[0]
	assert.True(t, p.IsQuote)
	assert.Equal(t, "300", p.ID)
	assert.Equal(t, "bob", p.AuthorHandle)

	require.NotNil(t, p.QuotedPost)
	q := p.QuotedPost
	assert.Equal(t, "100", q.ID)
	assert.Equal(t, "original take", q.Text)
	assert.Equal(t, "alice", q.AuthorHandle)
	assert.Equal(t, int64(20), q.Likes)
	assert.Equal(t, int64(3), q.Retweets)
	assert.Equal(t, int64(2), q.Replies)
	assert.Zero(t, q.Quotes)
	assert.Nil(t, q.QuotedPost)
}

func TestNormalizeReplyFlag(t *testing.T) {
	resp := decodeResponse(t, `{
		"data": [{
			"id": "400",
			"text": "@alice agreed",
			"author_id": "2",
			"conversation_id": "100",
			"referenced_tweets": [{"type": "replied_to", "id": "100"}]
		}],
		"includes": {"users": [{"id": "2", "name": "Bob", "username": "bob"}]}
	}`)

	posts := Normalize(resp.Data, resp.Includes)
	require.Len(t, posts, 1)
	assert.True(t, posts[0].IsReply)
	assert.False(t, posts[0].IsRetweet)
	assert.Equal(t, "100", posts[0].ConversationID)
}

func TestNormalizeNoteTweetAndEntities(t *testing.T) {
	resp := decodeResponse(t, `{
		"data": [{
			"id": "500",
			"text": "short preview…",
			"author_id": "1",
			"note_tweet": {"text": "the full long-form text, fish &amp; chips"}
		}],
		"includes": {"users": [{"id": "1", "name": "Alice", "username": "alice"}]}
	}`)

	posts := Normalize(resp.Data, resp.Includes)
	require.Len(t, posts, 1)
	assert.Equal(t, "the full long-form text, fish & chips", posts[0].Text)
}

func TestNormalizeURLFiltering(t *testing.T) {
	resp := decodeResponse(t, `{
		"data": [{
			"id": "600",
			"text": "links",
			"author_id": "1",
			"entities": {"urls": [
				{"url": "https://t.co/a", "expanded_url": "https://example.com/article", "display_url": "example.com/article"},
				{"url": "https://t.co/b", "expanded_url": "https://twitter.com/alice/status/1", "display_url": "twitter.com/…"},
				{"url": "https://t.co/c", "expanded_url": "https://x.com/alice/status/2", "display_url": "x.com/…"},
				{"url": "https://t.co/d", "expanded_url": "", "display_url": "t.co/d"}
			]}
		}],
		"includes": {"users": [{"id": "1", "name": "Alice", "username": "alice"}]}
	}`)

	posts := Normalize(resp.Data, resp.Includes)
	require.Len(t, posts, 1)
	assert.Equal(t, []string{"https://example.com/article", "https://t.co/d"}, posts[0].URLs)
}

func TestNormalizeUnknownAuthorPlaceholder(t *testing.T) {
	resp := decodeResponse(t, `{
		"data": [{"id": "700", "text": "orphan", "author_id": "99"}]
	}`)

	posts := Normalize(resp.Data, resp.Includes)
	require.Len(t, posts, 1)
	assert.Equal(t, "unknown", posts[0].AuthorHandle)
	assert.Equal(t, "Unknown", posts[0].AuthorName)
}

func TestNormalizeOne(t *testing.T) {
	assert.Empty(t, NormalizeOne(nil, nil))

	tweet := twitter.Tweet{ID: "800", Text: "solo"}
	posts := NormalizeOne(&tweet, nil)
	require.Len(t, posts, 1)
	assert.Equal(t, "800", posts[0].ID)
}
