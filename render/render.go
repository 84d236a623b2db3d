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

package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	runewidth "github.com/mattn/go-runewidth"

	"github.com/qitoi/birdview/bookmark"
	"github.com/qitoi/birdview/feed"
)

var (
	handleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	nameStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	likeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	retweetStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	replyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	quoteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	urlStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Underline(true)
	titleStyle   = lipgloss.NewStyle().Bold(true)
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	borderDefault = lipgloss.Color("25")
	borderRetweet = lipgloss.Color("22")
	borderReply   = lipgloss.Color("58")
	borderProfile = lipgloss.Color("14")
	borderHelp    = lipgloss.Color("241")

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	quotePanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1).
			MarginLeft(2)
)

// Renderer formats posts and panels onto a terminal sink. It holds no state
// beyond the destination writer; callers own the lifecycle.
type Renderer struct {
	out io.Writer
}

func New(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Clear wipes the screen and homes the cursor.
func (r *Renderer) Clear() {
	fmt.Fprint(r.out, "\x1b[2J\x1b[H")
}

func (r *Renderer) Println(args ...interface{}) {
	fmt.Fprintln(r.out, args...)
}

// Prompt writes an inline prompt without a trailing newline.
func (r *Renderer) Prompt(msg string) {
	fmt.Fprint(r.out, msg)
}

func (r *Renderer) Notice(msg string) {
	fmt.Fprintln(r.out, noticeStyle.Render(msg))
}

func (r *Renderer) Error(msg string) {
	fmt.Fprintln(r.out, errorStyle.Render(msg))
}

func (r *Renderer) Success(msg string) {
	fmt.Fprintln(r.out, successStyle.Render("✓ "+msg))
}

// Post renders one post as a bordered panel. index < 0 omits the index tag.
func (r *Renderer) Post(p *feed.Post, index int) string {
	var sb strings.Builder

	if index >= 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("[%d] ", index)))
	}
	if p.IsRetweet && p.RetweetedBy != "" {
		sb.WriteString(dimStyle.Italic(true).Render(fmt.Sprintf("🔁 @%s retweeted", p.RetweetedBy)))
		sb.WriteString("\n")
	}

	sb.WriteString(handleStyle.Render("@" + p.AuthorHandle))
	if age := p.Age(); age != "" {
		sb.WriteString(dimStyle.Render(" · " + age))
	}
	sb.WriteString("\n")
	sb.WriteString(highlightEntities(p.Text))

	if p.QuotedPost != nil {
		qt := p.QuotedPost
		var q strings.Builder
		q.WriteString(dimStyle.Bold(true).Render("@" + qt.AuthorHandle))
		if age := qt.Age(); age != "" {
			q.WriteString(dimStyle.Render(" · " + age))
		}
		q.WriteString("\n")
		q.WriteString(dimStyle.Render(clip(qt.Text, 200)))
		sb.WriteString("\n")
		sb.WriteString(quotePanelStyle.Render(q.String()))
	}

	if len(p.URLs) > 0 {
		sb.WriteString("\n")
		for _, u := range p.URLs[:minInt(len(p.URLs), 3)] {
			sb.WriteString(urlStyle.Render("🔗 " + u))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(likeStyle.Render("♥ " + FormatCount(p.Likes)))
	sb.WriteString("  ")
	sb.WriteString(retweetStyle.Render("🔁 " + FormatCount(p.Retweets)))
	sb.WriteString("  ")
	sb.WriteString(replyStyle.Render("💬 " + FormatCount(p.Replies)))
	if p.Quotes > 0 {
		sb.WriteString("  ")
		sb.WriteString(quoteStyle.Render("✍ " + FormatCount(p.Quotes)))
	}

	border := borderDefault
	if p.IsRetweet {
		border = borderRetweet
	}
	if p.IsReply {
		border = borderReply
	}

	return panelStyle.BorderForeground(border).Render(sb.String())
}

// PostList renders a page of posts with page-relative indexes.
func (r *Renderer) PostList(posts []feed.Post, title string) {
	if len(posts) == 0 {
		r.Notice("No posts to display.")
		return
	}

	if title != "" {
		fmt.Fprintf(r.out, "\n%s\n\n", titleStyle.Render(title))
	}

	for i := range posts {
		fmt.Fprintln(r.out, r.Post(&posts[i], i))
	}
}

// PostDetail renders a single post followed by its permalink and ids.
func (r *Renderer) PostDetail(p *feed.Post) {
	fmt.Fprintln(r.out, r.Post(p, -1))
	fmt.Fprintln(r.out)
	r.Notice("Link: " + p.Permalink())
	r.Notice("Post ID: " + p.ID)
	if p.ConversationID != "" {
		r.Notice("Conversation: " + p.ConversationID)
	}
}

// UserHeader renders a profile summary panel.
func (r *Renderer) UserHeader(profile *feed.Profile) {
	var sb strings.Builder
	sb.WriteString(nameStyle.Render(profile.Name))
	sb.WriteString(handleStyle.Render("  @" + profile.Username))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(fmt.Sprintf("%s followers  ·  %s following  ·  %s posts",
		FormatCount(profile.Followers), FormatCount(profile.Following), FormatCount(profile.Posts))))

	fmt.Fprintln(r.out, panelStyle.BorderForeground(borderProfile).Render(sb.String()))
}

// Bookmarks renders saved bookmarks as a table.
func (r *Renderer) Bookmarks(bookmarks []bookmark.Bookmark) {
	if len(bookmarks) == 0 {
		r.Notice("No bookmarks saved yet.")
		return
	}

	fmt.Fprintf(r.out, "\n%s\n\n", titleStyle.Render(fmt.Sprintf("📑 Bookmarks (%d)", len(bookmarks))))

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("#", "AUTHOR", "POST", "SAVED")

	for i, b := range bookmarks {
		saved := b.SavedAt
		if len(saved) > 10 {
			saved = saved[:10]
		}
		t.Row(
			strconv.Itoa(i),
			"@"+b.Author,
			runewidth.Truncate(oneLine(b.Text), 60, "…"),
			saved,
		)
	}

	fmt.Fprintln(r.out, t.Render())
}

// HelpBar renders the interactive command summary.
func (r *Renderer) HelpBar() {
	keys := []string{"[b]ookmark", "[c]opy link", "[o]pen", "[t]hread", "[n/p] page", "[#] detail", "[q]uit"}
	help := dimStyle.Render(strings.Join(keys, "  "))
	fmt.Fprintln(r.out, panelStyle.BorderForeground(borderHelp).Render(help))
}

func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
