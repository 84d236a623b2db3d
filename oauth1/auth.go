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

// Package oauth1 wraps the OAuth1 PIN ("oob") authorization flow for a
// consumer key pair and builds signed HTTP clients for user-context calls.
package oauth1

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/dghubble/oauth1"
	"github.com/dghubble/oauth1/twitter"
)

// pinCallback requests out-of-band delivery: the provider shows the user a
// PIN instead of redirecting to a callback URL.
const pinCallback = "oob"

// Auth holds the consumer credentials and, once AuthorizationURL has been
// called, the temporary request token awaiting PIN exchange.
type Auth struct {
	config        *oauth1.Config
	requestToken  string
	requestSecret string
}

func NewAuth(consumerKey, consumerSecret string) *Auth {
	return &Auth{
		config: &oauth1.Config{
			ConsumerKey:    consumerKey,
			ConsumerSecret: consumerSecret,
			CallbackURL:    pinCallback,
			Endpoint:       twitter.AuthorizeEndpoint,
		},
	}
}

// AuthorizationURL requests a temporary token and returns the URL the user
// must visit to obtain a PIN.
func (a *Auth) AuthorizationURL() (*url.URL, error) {
	requestToken, requestSecret, err := a.config.RequestToken()
	if err != nil {
		return nil, err
	}

	a.requestToken = requestToken
	a.requestSecret = requestSecret

	return a.config.AuthorizationURL(requestToken)
}

// ExchangePIN trades the PIN shown to the user for a permanent access token
// pair. AuthorizationURL must have succeeded first.
func (a *Auth) ExchangePIN(pin string) (accessToken string, accessSecret string, err error) {
	if a.requestToken == "" {
		return "", "", errors.New("authorization has not been requested")
	}
	return a.config.AccessToken(a.requestToken, a.requestSecret, pin)
}

// Client returns an http.Client signing every request with the given access
// token pair.
func (a *Auth) Client(ctx context.Context, accessToken, accessSecret string) *http.Client {
	token := oauth1.NewToken(accessToken, accessSecret)
	return a.config.Client(ctx, token)
}
