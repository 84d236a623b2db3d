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

package bookmark

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

const maxTextLen = 280

// Bookmark is one locally saved post reference.
type Bookmark struct {
	TweetID string `json:"tweet_id"`
	Author  string `json:"author"`
	Text    string `json:"text"`
	URL     string `json:"url"`
	SavedAt string `json:"saved_at"`
}

// Store persists bookmarks as a flat JSON array. Every mutation rewrites the
// whole file atomically.
type Store struct {
	path string
	now  func() time.Time
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
		now:  time.Now,
	}
}

// Load returns all bookmarks, or none when the file does not exist yet.
func (s *Store) Load() ([]Bookmark, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var bookmarks []Bookmark
	if err := json.Unmarshal(data, &bookmarks); err != nil {
		return nil, err
	}
	return bookmarks, nil
}

// Add saves a bookmark unless the tweet id is already present. Text is
// truncated to 280 characters. Reports whether anything was added.
func (s *Store) Add(tweetID, author, text, url string) (bool, error) {
	bookmarks, err := s.Load()
	if err != nil {
		return false, err
	}

	for _, b := range bookmarks {
		if b.TweetID == tweetID {
			return false, nil
		}
	}

	bookmarks = append(bookmarks, Bookmark{
		TweetID: tweetID,
		Author:  author,
		Text:    truncate(text, maxTextLen),
		URL:     url,
		SavedAt: s.now().Format(time.RFC3339),
	})

	return true, s.save(bookmarks)
}

// Remove deletes the bookmark with the given tweet id, reporting whether it
// was present.
func (s *Store) Remove(tweetID string) (bool, error) {
	bookmarks, err := s.Load()
	if err != nil {
		return false, err
	}

	kept := bookmarks[:0]
	for _, b := range bookmarks {
		if b.TweetID != tweetID {
			kept = append(kept, b)
		}
	}
	if len(kept) == len(bookmarks) {
		return false, nil
	}

	return true, s.save(kept)
}

func (s *Store) save(bookmarks []Bookmark) error {
	if bookmarks == nil {
		bookmarks = []Bookmark{}
	}

	data, err := json.MarshalIndent(bookmarks, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}

	// write-then-rename keeps a concurrent reader from seeing a torn file
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
