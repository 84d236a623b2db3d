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

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	appDirName      = ".birdview"
	credentialsFile = "credentials.yaml"
	bookmarksFile   = "bookmarks.json"
	logFile         = "birdview.log"

	envPrefix = "BIRDVIEW_"
)

// Credentials holds the five API secrets. Loaded once at startup, never
// logged or displayed.
type Credentials struct {
	ConsumerKey       string `yaml:"consumer_key"`
	ConsumerSecret    string `yaml:"consumer_secret"`
	BearerToken       string `yaml:"bearer_token"`
	AccessToken       string `yaml:"access_token"`
	AccessTokenSecret string `yaml:"access_token_secret"`
}

var requiredKeys = []string{
	"consumer_key",
	"consumer_secret",
	"bearer_token",
	"access_token",
	"access_token_secret",
}

// MissingKeysError lists every absent credential key, not just the first.
type MissingKeysError struct {
	Source string
	Keys   []string
}

func (e *MissingKeysError) Error() string {
	return fmt.Sprintf("missing credentials in %s: %s\nrequired: %s\nrun 'birdview init' to set up",
		e.Source, strings.Join(e.Keys, ", "), strings.Join(requiredKeys, ", "))
}

func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, appDirName), nil
}

// EnsureDir creates the app directory if absent, owner-only.
func EnsureDir() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return dir, nil
}

func CredentialsPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, credentialsFile), nil
}

func BookmarksPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, bookmarksFile), nil
}

func LogPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, logFile), nil
}

// LoadCredentials reads the credentials file, falling back to BIRDVIEW_*
// environment variables when the file does not exist. Any missing key is a
// fatal configuration error naming all missing keys.
func LoadCredentials() (*Credentials, error) {
	path, err := CredentialsPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return credentialsFromEnv()
	}

	return LoadCredentialsFile(path)
}

func LoadCredentialsFile(path string) (*Credentials, error) {
	creds, err := ReadCredentialsFile(path)
	if err != nil {
		return nil, err
	}

	if missing := creds.missingKeys(); len(missing) > 0 {
		return nil, &MissingKeysError{Source: path, Keys: missing}
	}

	return creds, nil
}

// ReadCredentialsFile decodes the file without checking completeness. Used by
// setup flows that treat existing values as editable defaults.
func ReadCredentialsFile(path string) (*Credentials, error) {
	file, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	creds := &Credentials{}
	if err := yaml.NewDecoder(file).Decode(creds); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return creds, nil
}

func credentialsFromEnv() (*Credentials, error) {
	creds := &Credentials{
		ConsumerKey:       os.Getenv(envPrefix + "CONSUMER_KEY"),
		ConsumerSecret:    os.Getenv(envPrefix + "CONSUMER_SECRET"),
		BearerToken:       os.Getenv(envPrefix + "BEARER_TOKEN"),
		AccessToken:       os.Getenv(envPrefix + "ACCESS_TOKEN"),
		AccessTokenSecret: os.Getenv(envPrefix + "ACCESS_TOKEN_SECRET"),
	}

	if missing := creds.missingKeys(); len(missing) > 0 {
		return nil, &MissingKeysError{Source: "environment", Keys: missing}
	}

	return creds, nil
}

// SaveCredentials writes the credentials file restricted to owner read/write,
// creating the app directory if needed.
func SaveCredentials(creds *Credentials) (string, error) {
	if _, err := EnsureDir(); err != nil {
		return "", err
	}

	path, err := CredentialsPath()
	if err != nil {
		return "", err
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := yaml.NewEncoder(file).Encode(creds); err != nil {
		return "", err
	}

	// the file may predate this run with looser bits
	if err := os.Chmod(path, 0600); err != nil {
		return "", err
	}

	return path, nil
}

func (c *Credentials) missingKeys() []string {
	var missing []string
	for i, v := range []string{c.ConsumerKey, c.ConsumerSecret, c.BearerToken, c.AccessToken, c.AccessTokenSecret} {
		if v == "" {
			missing = append(missing, requiredKeys[i])
		}
	}
	return missing
}
