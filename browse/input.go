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

package browse

import (
	"bufio"
	"errors"
	"io"
	"os"
	"os/signal"
	"sync"
)

// ErrInterrupted reports an interrupt signal received while waiting for a
// prompt line. Callers treat it like a quit of the current session.
var ErrInterrupted = errors.New("interrupted")

// Input serializes prompt reads from a terminal reader and folds interrupt
// signals into the read result.
type Input struct {
	lines chan string
	done  chan error
	sig   chan os.Signal
	quit  chan struct{}
	once  sync.Once
}

func NewInput(r io.Reader) *Input {
	in := &Input{
		lines: make(chan string),
		done:  make(chan error, 1),
		sig:   make(chan os.Signal, 1),
		quit:  make(chan struct{}),
	}

	signal.Notify(in.sig, os.Interrupt)

	go func() {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case in.lines <- scanner.Text():
			case <-in.quit:
				return
			}
		}
		if err := scanner.Err(); err != nil {
			in.done <- err
		} else {
			in.done <- io.EOF
		}
		close(in.done)
	}()

	return in
}

// ReadLine blocks for the next input line. It returns ErrInterrupted on
// SIGINT and io.EOF when the input is exhausted or the Input is closed.
func (in *Input) ReadLine() (string, error) {
	select {
	case <-in.quit:
		return "", io.EOF
	default:
	}

	select {
	case line := <-in.lines:
		return line, nil
	case err, ok := <-in.done:
		if !ok || err == nil {
			return "", io.EOF
		}
		return "", err
	case <-in.sig:
		return "", ErrInterrupted
	case <-in.quit:
		return "", io.EOF
	}
}

// Close releases the signal registration and lets the scanner goroutine exit
// even when unread input remains. Safe to call more than once.
func (in *Input) Close() {
	in.once.Do(func() {
		signal.Stop(in.sig)
		close(in.quit)
	})
}
