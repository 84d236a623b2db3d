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
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/qitoi/birdview/config"
	"github.com/qitoi/birdview/oauth1"
	"github.com/qitoi/birdview/render"
	"github.com/qitoi/birdview/twitter"
)

var authorize bool

func init() {
	initCmd.Flags().BoolVar(&authorize, "authorize", false, "derive tokens via the OAuth PIN flow instead of entering them manually")
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Set up API credentials",
	Long: `Set up API credentials in ~/.birdview/credentials.yaml.

By default all five values are entered manually. With --authorize, only the
consumer key pair is entered; the access token and bearer token are obtained
through the OAuth PIN flow.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r := render.New(os.Stdout)
		in := bufio.NewReader(os.Stdin)

		if authorize {
			return runAuthorize(cmd, r, in)
		}
		return runManualInit(r, in)
	},
}

func runManualInit(r *render.Renderer, in *bufio.Reader) error {
	existing := loadExisting()

	r.Println("Enter your Twitter/X API credentials.")
	if existing != nil {
		r.Notice("Press Enter to keep a current value.")
	}
	r.Println()

	creds := &config.Credentials{}
	fields := []struct {
		label   string
		current string
		dst     *string
	}{
		{"consumer_key", existingField(existing, func(c *config.Credentials) string { return c.ConsumerKey }), &creds.ConsumerKey},
		{"consumer_secret", existingField(existing, func(c *config.Credentials) string { return c.ConsumerSecret }), &creds.ConsumerSecret},
		{"bearer_token", existingField(existing, func(c *config.Credentials) string { return c.BearerToken }), &creds.BearerToken},
		{"access_token", existingField(existing, func(c *config.Credentials) string { return c.AccessToken }), &creds.AccessToken},
		{"access_token_secret", existingField(existing, func(c *config.Credentials) string { return c.AccessTokenSecret }), &creds.AccessTokenSecret},
	}

	for _, f := range fields {
		label := f.label
		if f.current != "" {
			label += " [set]"
		}
		value, err := promptLine(r, in, label+": ")
		if err != nil {
			return err
		}
		if value == "" {
			value = f.current
		}
		*f.dst = value
	}

	return saveAndReport(r, creds)
}

func runAuthorize(cmd *cobra.Command, r *render.Renderer, in *bufio.Reader) error {
	consumerKey, err := promptLine(r, in, "consumer_key: ")
	if err != nil {
		return err
	}
	consumerSecret, err := promptLine(r, in, "consumer_secret: ")
	if err != nil {
		return err
	}
	if consumerKey == "" || consumerSecret == "" {
		return fmt.Errorf("consumer key and secret are required")
	}

	auth := oauth1.NewAuth(consumerKey, consumerSecret)
	authURL, err := auth.AuthorizationURL()
	if err != nil {
		return fmt.Errorf("request authorization: %w", err)
	}

	r.Println()
	r.Println("Open this URL and authorize the app:")
	r.Println("  " + authURL.String())
	if err := browser.OpenURL(authURL.String()); err == nil {
		r.Notice("(opened in your browser)")
	}
	r.Println()

	pin, err := promptLine(r, in, "PIN: ")
	if err != nil {
		return err
	}
	if pin == "" {
		return fmt.Errorf("a PIN is required")
	}

	accessToken, accessSecret, err := auth.ExchangePIN(pin)
	if err != nil {
		return fmt.Errorf("exchange PIN for access token: %w", err)
	}

	bearer, err := twitter.GetBearerToken(cmd.Context(), consumerKey, consumerSecret)
	if err != nil {
		return fmt.Errorf("fetch bearer token: %w", err)
	}

	return saveAndReport(r, &config.Credentials{
		ConsumerKey:       consumerKey,
		ConsumerSecret:    consumerSecret,
		BearerToken:       bearer,
		AccessToken:       accessToken,
		AccessTokenSecret: accessSecret,
	})
}

func saveAndReport(r *render.Renderer, creds *config.Credentials) error {
	path, err := config.SaveCredentials(creds)
	if err != nil {
		return err
	}
	r.Success("Credentials saved to " + path)
	return nil
}

func promptLine(r *render.Renderer, in *bufio.Reader, prompt string) (string, error) {
	r.Prompt(prompt)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// loadExisting returns current credentials even if incomplete, so init can
// offer them as defaults. A missing or unreadable file just means no defaults.
func loadExisting() *config.Credentials {
	path, err := config.CredentialsPath()
	if err != nil {
		return nil
	}
	creds, err := config.ReadCredentialsFile(path)
	if err != nil {
		return nil
	}
	return creds
}

func existingField(c *config.Credentials, get func(*config.Credentials) string) string {
	if c == nil {
		return ""
	}
	return get(c)
}
