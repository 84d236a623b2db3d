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

package browse

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/browser"
	"go.uber.org/zap"

	"github.com/qitoi/birdview/bookmark"
	"github.com/qitoi/birdview/feed"
	"github.com/qitoi/birdview/render"
)

const defaultPageSize = 10

// ThreadLoader fetches the full conversation for a post.
type ThreadLoader interface {
	Thread(ctx context.Context, tweetID string) ([]feed.Post, error)
}

// Browser runs the interactive paging loop. Thread drill-down pushes a nested
// session; quitting it returns to the parent session's page.
type Browser struct {
	Renderer *render.Renderer
	Input    *Input
	Store    *bookmark.Store
	Loader   ThreadLoader
	PageSize int
	Logger   *zap.SugaredLogger
}

// session is one browsing level on the stack.
type session struct {
	posts []feed.Post
	title string
	page  int
}

func (s *session) totalPages(pageSize int) int {
	return (len(s.posts) + pageSize - 1) / pageSize
}

// Browse pages through posts until the user quits the outermost session.
func (b *Browser) Browse(ctx context.Context, posts []feed.Post, title string) error {
	if len(posts) == 0 {
		b.Renderer.Notice("No posts to display.")
		return nil
	}

	pageSize := b.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	stack := []*session{{posts: posts, title: title}}

	for len(stack) > 0 {
		s := stack[len(stack)-1]

		b.Renderer.Clear()
		start := s.page * pageSize
		end := start + pageSize
		if end > len(s.posts) {
			end = len(s.posts)
		}

		pageTitle := s.title
		if total := s.totalPages(pageSize); total > 1 {
			pageTitle = fmt.Sprintf("%s  (page %d/%d)", s.title, s.page+1, total)
		}

		b.Renderer.PostList(s.posts[start:end], pageTitle)
		b.Renderer.HelpBar()
		b.Renderer.Prompt("> ")

		line, err := b.Input.ReadLine()
		if err != nil {
			// interrupt or end of input quits the current session only
			stack = stack[:len(stack)-1]
			continue
		}

		cmd := strings.ToLower(strings.TrimSpace(line))
		verb, arg := parseCommand(cmd)

		switch verb {
		case "q":
			stack = stack[:len(stack)-1]

		case "n":
			if s.page < s.totalPages(pageSize)-1 {
				s.page++
			} else {
				b.Renderer.Notice("Already on last page.")
				b.pause()
			}

		case "p":
			if s.page > 0 {
				s.page--
			} else {
				b.Renderer.Notice("Already on first page.")
				b.pause()
			}

		case "b", "c", "o", "t":
			post, ok := b.resolvePost(s, start, arg)
			if !ok {
				continue
			}
			b.runAction(ctx, &stack, verb, post)

		case "#":
			idx, _ := strconv.Atoi(arg)
			absIdx := start + idx
			if absIdx < 0 || absIdx >= len(s.posts) {
				b.Renderer.Error(fmt.Sprintf("Post #%d not on this page.", idx))
				b.pause()
				continue
			}
			b.Renderer.Clear()
			b.Renderer.PostDetail(&s.posts[absIdx])
			b.pause()

		default:
			b.Renderer.Notice("Unknown command: " + cmd)
			b.pause()
		}
	}

	return nil
}

// parseCommand splits a normalized line into a verb and its argument. A bare
// integer becomes the detail verb "#"; empty input becomes "q".
func parseCommand(cmd string) (verb, arg string) {
	if cmd == "" {
		return "q", ""
	}
	if isDigits(cmd) {
		return "#", cmd
	}
	switch cmd[:1] {
	case "b", "c", "o", "t":
		return cmd[:1], strings.TrimSpace(cmd[1:])
	}
	if cmd == "q" || cmd == "n" || cmd == "p" {
		return cmd, ""
	}
	return "?", cmd
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// resolvePost turns a page-relative index argument into a post, prompting
// when the argument was omitted. Bad input yields a notice, never a crash.
func (b *Browser) resolvePost(s *session, start int, arg string) (*feed.Post, bool) {
	if arg == "" {
		b.Renderer.Prompt("Post #: ")
		line, err := b.Input.ReadLine()
		if err != nil {
			return nil, false
		}
		arg = strings.TrimSpace(line)
		if arg == "" {
			arg = "0"
		}
	}

	idx, err := strconv.Atoi(arg)
	if err != nil {
		b.Renderer.Error("Invalid post number.")
		b.pause()
		return nil, false
	}

	absIdx := start + idx
	if absIdx < 0 || absIdx >= len(s.posts) {
		b.Renderer.Error(fmt.Sprintf("Post #%d not on this page.", idx))
		b.pause()
		return nil, false
	}

	return &s.posts[absIdx], true
}

func (b *Browser) runAction(ctx context.Context, stack *[]*session, verb string, post *feed.Post) {
	switch verb {
	case "b":
		added, err := b.Store.Add(post.ID, post.AuthorHandle, post.Text, post.Permalink())
		switch {
		case err != nil:
			b.Renderer.Error("Could not save bookmark: " + err.Error())
		case added:
			b.Renderer.Success(fmt.Sprintf("Bookmarked @%s's post", post.AuthorHandle))
		default:
			b.Renderer.Notice("Already bookmarked.")
		}
		b.pause()

	case "c":
		if copyToClipboard(post.Permalink()) {
			b.Renderer.Success("Copied: " + post.Permalink())
		} else {
			b.Renderer.Notice("Link: " + post.Permalink())
			b.Renderer.Notice("(clipboard not available — copy manually)")
		}
		b.pause()

	case "o":
		b.Renderer.Notice("Opening " + post.Permalink() + "...")
		if err := browser.OpenURL(post.Permalink()); err != nil {
			if b.Logger != nil {
				b.Logger.Debugw("browser open failed", "error", err)
			}
			b.Renderer.Notice("Link: " + post.Permalink())
		}
		b.pause()

	case "t":
		if b.Loader == nil {
			b.Renderer.Notice("Thread view not available here.")
			b.pause()
			return
		}
		b.Renderer.Notice("Loading thread...")
		posts, err := b.Loader.Thread(ctx, post.ID)
		if err != nil {
			b.Renderer.Error("Error loading thread: " + err.Error())
			b.pause()
			return
		}
		if len(posts) == 0 {
			b.Renderer.Notice("No posts in thread.")
			b.pause()
			return
		}
		*stack = append(*stack, &session{
			posts: posts,
			title: fmt.Sprintf("🧵 Thread from @%s", post.AuthorHandle),
		})
	}
}

// pause blocks for a single acknowledgment keypress before redrawing.
func (b *Browser) pause() {
	b.Renderer.Prompt("\nPress Enter to continue...")
	_, _ = b.Input.ReadLine()
}
