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
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kylemcc/twitter-text-go/extract"
)

var (
	mentionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	hashtagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

// highlightEntities styles @mentions and #hashtags inside post text.
func highlightEntities(text string) string {
	var tokens []string
	seen := make(map[string]bool)

	for _, entry := range extract.ExtractMentionedScreenNames(text) {
		screenName, ok := entry.ScreenName()
		if !ok || screenName == "" {
			continue
		}
		tokens = append(tokens, "@"+screenName)
	}
	for _, entry := range extract.ExtractHashtags(text) {
		hashtag, ok := entry.Hashtag()
		if !ok || hashtag == "" {
			continue
		}
		tokens = append(tokens, "#"+hashtag)
	}

	// longest first so "@abc" wins over "@ab" inside the replacer
	sort.Slice(tokens, func(i, j int) bool { return len(tokens[i]) > len(tokens[j]) })

	var reps []string
	for _, tok := range tokens {
		if seen[tok] {
			continue
		}
		seen[tok] = true
		style := mentionStyle
		if strings.HasPrefix(tok, "#") {
			style = hashtagStyle
		}
		reps = append(reps, tok, style.Render(tok))
	}

	if len(reps) == 0 {
		return text
	}
	return strings.NewReplacer(reps...).Replace(text)
}
