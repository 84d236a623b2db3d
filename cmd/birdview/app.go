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
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/qitoi/birdview/bookmark"
	"github.com/qitoi/birdview/browse"
	"github.com/qitoi/birdview/config"
	"github.com/qitoi/birdview/feed"
	"github.com/qitoi/birdview/logger"
	"github.com/qitoi/birdview/render"
)

// app wires the per-invocation collaborators: gateway client, rendering
// sink, stores and input. Lifecycle is one command run.
type app struct {
	client   *feed.Client
	renderer *render.Renderer
	store    *bookmark.Store
	input    *browse.Input
	logger   *zap.Logger
}

// newApp loads credentials and builds the clients. Missing credentials are a
// fatal configuration error; the message carries the remediation hint.
func newApp(ctx context.Context) (*app, error) {
	creds, err := config.LoadCredentials()
	if err != nil {
		return nil, err
	}

	log := buildLogger()

	a := &app{
		client:   feed.NewClient(ctx, creds, log.Sugar()),
		renderer: render.New(os.Stdout),
		input:    browse.NewInput(os.Stdin),
		logger:   log,
	}

	bookmarksPath, err := config.BookmarksPath()
	if err != nil {
		return nil, err
	}
	a.store = bookmark.NewStore(bookmarksPath)

	return a, nil
}

func buildLogger() *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	path, err := config.LogPath()
	if err != nil {
		return logger.Nop()
	}
	if _, err := config.EnsureDir(); err != nil {
		return logger.Nop()
	}

	log, err := logger.Open(path, level)
	if err != nil {
		return logger.Nop()
	}
	return log
}

func (a *app) Close() {
	a.input.Close()
	_ = a.logger.Sync()
}

func (a *app) browser() *browse.Browser {
	return &browse.Browser{
		Renderer: a.renderer,
		Input:    a.input,
		Store:    a.store,
		Loader:   a.client,
		Logger:   a.logger.Sugar(),
	}
}
