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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/qitoi/birdview/bookmark"
	"github.com/qitoi/birdview/config"
	"github.com/qitoi/birdview/render"
)

var removeIndex int

func init() {
	bookmarksCmd.Flags().IntVar(&removeIndex, "remove", -1, "remove the bookmark at this list index")
}

// bookmarks works entirely off local files and never needs credentials.
var bookmarksCmd = &cobra.Command{
	Use:   "bookmarks",
	Short: "List or remove saved bookmarks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r := render.New(os.Stdout)

		path, err := config.BookmarksPath()
		if err != nil {
			return err
		}
		store := bookmark.NewStore(path)

		if cmd.Flags().Changed("remove") {
			return removeBookmark(r, store, removeIndex)
		}

		bookmarks, err := store.Load()
		if err != nil {
			return err
		}
		r.Bookmarks(bookmarks)
		return nil
	},
}

func removeBookmark(r *render.Renderer, store *bookmark.Store, index int) error {
	bookmarks, err := store.Load()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(bookmarks) {
		return fmt.Errorf("no bookmark at index %d (have %d)", index, len(bookmarks))
	}

	target := bookmarks[index]
	removed, err := store.Remove(target.TweetID)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("bookmark %s vanished before removal", target.TweetID)
	}

	r.Success(fmt.Sprintf("Removed bookmark of @%s's post", target.Author))
	return nil
}
