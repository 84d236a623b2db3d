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
	"html"
	"strings"

	"github.com/qitoi/birdview/twitter"
)

const (
	refRetweeted = "retweeted"
	refRepliedTo = "replied_to"
	refQuoted    = "quoted"
)

// Normalize flattens a page of raw tweets plus its includes side payload into
// display records, order preserved. Missing referenced users or tweets never
// fail; they degrade to placeholders or to the wrapper's own fields.
func Normalize(data []twitter.Tweet, includes *twitter.Includes) []Post {
	users := make(map[string]twitter.User)
	refTweets := make(map[string]twitter.Tweet)
	if includes != nil {
		if includes.Users != nil {
			for _, u := range *includes.Users {
				users[u.ID] = u
			}
		}
		if includes.Tweets != nil {
			for _, t := range *includes.Tweets {
				refTweets[t.ID] = t
			}
		}
	}

	posts := make([]Post, 0, len(data))
	for i := range data {
		posts = append(posts, normalizeTweet(&data[i], users, refTweets))
	}
	return posts
}

// NormalizeOne handles single-tweet responses.
func NormalizeOne(t *twitter.Tweet, includes *twitter.Includes) []Post {
	if t == nil {
		return []Post{}
	}
	return Normalize([]twitter.Tweet{*t}, includes)
}

func normalizeTweet(t *twitter.Tweet, users map[string]twitter.User, refTweets map[string]twitter.Tweet) Post {
	handle, name := authorOf(t, users)

	isRetweet := hasReference(t, refRetweeted)
	isReply := hasReference(t, refRepliedTo)
	isQuote := hasReference(t, refQuoted)

	post := Post{
		ID:           t.ID,
		Text:         fullText(t),
		AuthorHandle: handle,
		AuthorName:   name,
		CreatedAt:    t.CreatedAt,
		IsRetweet:    isRetweet,
		IsReply:      isReply,
		IsQuote:      isQuote,
		URLs:         extractURLs(t),
	}
	post.Likes, post.Retweets, post.Replies, post.Quotes = metricsOf(t)

	if t.ConversationID != nil {
		post.ConversationID = *t.ConversationID
	}

	if isRetweet {
		// show the original; the wrapper only tells us who reshared it
		post.RetweetedBy = handle
		if orig, ok := findReference(t, refRetweeted, refTweets); ok {
			post.ID = orig.ID
			post.Text = fullText(orig)
			if origHandle, origName, ok := lookupAuthor(orig, users); ok {
				post.AuthorHandle = origHandle
				post.AuthorName = origName
			}
			if orig.PublicMetrics != nil {
				post.Likes, post.Retweets, post.Replies, post.Quotes = metricsOf(orig)
			}
			if orig.CreatedAt != nil {
				post.CreatedAt = orig.CreatedAt
			}
		}
	}

	if isQuote {
		if qt, ok := findReference(t, refQuoted, refTweets); ok {
			qtHandle, qtName := authorOf(qt, users)
			quoted := Post{
				ID:           qt.ID,
				Text:         fullText(qt),
				AuthorHandle: qtHandle,
				AuthorName:   qtName,
				CreatedAt:    qt.CreatedAt,
			}
			quoted.Likes, quoted.Retweets, quoted.Replies, _ = metricsOf(qt)
			post.QuotedPost = &quoted
		}
	}

	return post
}

func authorOf(t *twitter.Tweet, users map[string]twitter.User) (handle, name string) {
	if h, n, ok := lookupAuthor(t, users); ok {
		return h, n
	}
	return "unknown", "Unknown"
}

func lookupAuthor(t *twitter.Tweet, users map[string]twitter.User) (handle, name string, ok bool) {
	if t.AuthorID == nil {
		return "", "", false
	}
	u, found := users[*t.AuthorID]
	if !found {
		return "", "", false
	}
	return u.Username, u.Name, true
}

// fullText prefers the long-form note text over the 280-char preview.
func fullText(t *twitter.Tweet) string {
	text := t.Text
	if t.NoteTweet != nil && t.NoteTweet.Text != "" {
		text = t.NoteTweet.Text
	}
	return html.UnescapeString(text)
}

func metricsOf(t *twitter.Tweet) (likes, retweets, replies, quotes int64) {
	if t.PublicMetrics == nil {
		return 0, 0, 0, 0
	}
	m := t.PublicMetrics
	return m.LikeCount, m.RetweetCount, m.ReplyCount, m.QuoteCount
}

func hasReference(t *twitter.Tweet, refType string) bool {
	if t.ReferencedTweets == nil {
		return false
	}
	for _, r := range *t.ReferencedTweets {
		if r.Type == refType {
			return true
		}
	}
	return false
}

// findReference resolves the first reference of the given type against the
// includes side table.
func findReference(t *twitter.Tweet, refType string, refTweets map[string]twitter.Tweet) (*twitter.Tweet, bool) {
	if t.ReferencedTweets == nil {
		return nil, false
	}
	for _, r := range *t.ReferencedTweets {
		if r.Type != refType {
			continue
		}
		if ref, ok := refTweets[r.ID]; ok {
			return &ref, true
		}
		return nil, false
	}
	return nil, false
}

// extractURLs keeps expanded URLs in order, skipping platform-self-referencing
// permalinks.
func extractURLs(t *twitter.Tweet) []string {
	if t.Entities == nil || t.Entities.URLs == nil {
		return nil
	}
	var urls []string
	for _, u := range *t.Entities.URLs {
		expanded := u.ExpandedURL
		if expanded == "" {
			expanded = u.URL
		}
		if strings.Contains(expanded, "twitter.com") || strings.Contains(expanded, "x.com") {
			continue
		}
		urls = append(urls, expanded)
	}
	return urls
}
