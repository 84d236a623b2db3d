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

package oauth1

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAuthUsesPINCallback(t *testing.T) {
	auth := NewAuth("ck", "cs")
	assert.Equal(t, "oob", auth.config.CallbackURL)
	assert.Equal(t, "ck", auth.config.ConsumerKey)
}

func TestExchangePINRequiresAuthorization(t *testing.T) {
	auth := NewAuth("ck", "cs")
	_, _, err := auth.ExchangePIN("1234567")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authorization")
}

func TestClient(t *testing.T) {
	auth := NewAuth("ck", "cs")
	client := auth.Client(context.Background(), "at", "ats")
	require.NotNil(t, client)
	assert.NotNil(t, client.Transport)
}
