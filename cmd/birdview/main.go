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
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

var verbose bool

var rootCmd = &cobra.Command{
	Use:     "birdview",
	Short:   "birdview - minimal terminal Twitter/X reader",
	Long:    "🐦 birdview is a read-only terminal client for Twitter/X:\ntimelines, user posts, search and threads, with local bookmarks.",
	Version: version,

	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(timelineCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(threadCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(bookmarksCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
