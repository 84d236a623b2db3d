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
	"fmt"
	"time"
)

// Post is a single normalized status update, ready for rendering. For
// retweets the author, text, metrics, id and timestamp all describe the
// original post; RetweetedBy names the account that reshared it.
type Post struct {
	ID             string
	Text           string
	AuthorHandle   string
	AuthorName     string
	CreatedAt      *time.Time
	Likes          int64
	Retweets       int64
	Replies        int64
	Quotes         int64
	IsRetweet      bool
	IsReply        bool
	IsQuote        bool
	RetweetedBy    string
	QuotedPost     *Post
	ConversationID string
	URLs           []string
}

// Permalink links to the original post, not a retweet wrapper.
func (p *Post) Permalink() string {
	return fmt.Sprintf("https://x.com/%s/status/%s", p.AuthorHandle, p.ID)
}

func (p *Post) Age() string {
	return FormatAge(p.CreatedAt, time.Now().UTC())
}

// FormatAge renders a short relative age: 45s, 5m, 3h, 7d, then an absolute
// short date past 30 days. Unknown timestamps render empty.
func FormatAge(t *time.Time, now time.Time) string {
	if t == nil {
		return ""
	}

	secs := int64(now.Sub(*t).Seconds())
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}
	mins := secs / 60
	if mins < 60 {
		return fmt.Sprintf("%dm", mins)
	}
	hours := mins / 60
	if hours < 24 {
		return fmt.Sprintf("%dh", hours)
	}
	days := hours / 24
	if days < 30 {
		return fmt.Sprintf("%dd", days)
	}
	return t.Format("Jan 02")
}

// Profile is the subset of a user profile shown in headers.
type Profile struct {
	Username  string
	Name      string
	Followers int64
	Following int64
	Posts     int64
}
