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
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCredentials() *Credentials {
	return &Credentials{
		ConsumerKey:       "ck",
		ConsumerSecret:    "cs",
		BearerToken:       "bt",
		AccessToken:       "at",
		AccessTokenSecret: "ats",
	}
}

func TestSaveAndLoadCredentials(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path, err := SaveCredentials(testCredentials())
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	dirInfo, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), dirInfo.Mode().Perm())

	creds, err := LoadCredentials()
	require.NoError(t, err)
	assert.Equal(t, testCredentials(), creds)
}

func TestLoadCredentialsFileListsAllMissingKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.yaml")
	require.NoError(t, os.WriteFile(path, []byte("consumer_key: ck\nbearer_token: bt\n"), 0600))

	_, err := LoadCredentialsFile(path)
	require.Error(t, err)

	var missing *MissingKeysError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"consumer_secret", "access_token", "access_token_secret"}, missing.Keys)
	assert.Contains(t, err.Error(), "birdview init")
}

func TestLoadCredentialsFallsBackToEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("BIRDVIEW_CONSUMER_KEY", "ck")
	t.Setenv("BIRDVIEW_CONSUMER_SECRET", "cs")
	t.Setenv("BIRDVIEW_BEARER_TOKEN", "bt")
	t.Setenv("BIRDVIEW_ACCESS_TOKEN", "at")
	t.Setenv("BIRDVIEW_ACCESS_TOKEN_SECRET", "ats")

	creds, err := LoadCredentials()
	require.NoError(t, err)
	assert.Equal(t, testCredentials(), creds)
}

func TestLoadCredentialsEnvMissingKeys(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("BIRDVIEW_CONSUMER_KEY", "ck")
	t.Setenv("BIRDVIEW_CONSUMER_SECRET", "")
	t.Setenv("BIRDVIEW_BEARER_TOKEN", "")
	t.Setenv("BIRDVIEW_ACCESS_TOKEN", "")
	t.Setenv("BIRDVIEW_ACCESS_TOKEN_SECRET", "")

	_, err := LoadCredentials()
	require.Error(t, err)

	var missing *MissingKeysError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "environment", missing.Source)
	assert.Len(t, missing.Keys, 4)
}

func TestReadCredentialsFileAllowsPartial(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.yaml")
	require.NoError(t, os.WriteFile(path, []byte("consumer_key: ck\n"), 0600))

	creds, err := ReadCredentialsFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ck", creds.ConsumerKey)
	assert.Empty(t, creds.AccessToken)
}
