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

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/qitoi/birdview/feed"
)

var (
	fetchCount    int
	noInteractive bool
)

func init() {
	for _, cmd := range []*cobra.Command{timelineCmd, userCmd, threadCmd, searchCmd} {
		cmd.Flags().IntVarP(&fetchCount, "count", "n", 20, "number of posts to fetch")
		cmd.Flags().BoolVar(&noInteractive, "no-interactive", false, "print without the interactive browser")
	}
}

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "View your home timeline",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		me, err := a.client.Me(ctx)
		if err != nil {
			return err
		}
		a.renderer.Notice("Logged in as @" + me.Username)
		a.renderer.Notice("Loading timeline...")

		posts, err := a.client.Timeline(ctx, fetchCount)
		if err != nil {
			return err
		}

		return showPosts(ctx, a, posts, "🏠 Home Timeline")
	},
}

var userCmd = &cobra.Command{
	Use:   "user <username>",
	Short: "View a user's recent posts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		username := strings.TrimPrefix(args[0], "@")

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		a.renderer.Notice("Loading @" + username + "...")

		// the listing is still useful when the header fetch fails
		if profile, err := a.client.UserProfile(ctx, username); err == nil {
			a.renderer.UserHeader(profile)
		}

		posts, err := a.client.UserPosts(ctx, username, fetchCount)
		if err != nil {
			return err
		}

		return showPosts(ctx, a, posts, "📝 @"+username)
	},
}

var threadCmd = &cobra.Command{
	Use:   "thread <post-id>",
	Short: "View a post's thread/conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		a.renderer.Notice("Loading thread...")

		posts, err := a.client.Thread(ctx, args[0])
		if err != nil {
			return err
		}

		return showPosts(ctx, a, posts, "🧵 Thread")
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search recent posts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		a.renderer.Notice(fmt.Sprintf("Searching: %q...", args[0]))

		posts, err := a.client.Search(ctx, args[0], fetchCount)
		if err != nil {
			return err
		}

		return showPosts(ctx, a, posts, fmt.Sprintf("🔍 %q", args[0]))
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the authenticated account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		me, err := a.client.Me(ctx)
		if err != nil {
			return err
		}
		a.renderer.UserHeader(me)
		return nil
	},
}

func showPosts(ctx context.Context, a *app, posts []feed.Post, title string) error {
	if noInteractive {
		a.renderer.PostList(posts, title)
		return nil
	}
	return a.browser().Browse(ctx, posts, title)
}
