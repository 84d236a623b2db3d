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

package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Open builds a JSON logger appending to the given file. Log output goes to a
// file rather than the terminal so it never mixes with rendered panels.
func Open(path string, level zapcore.Level) (*zap.Logger, error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return nil, err
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	enabler := zap.LevelEnablerFunc(func(lv zapcore.Level) bool {
		return lv >= level
	})

	core := zapcore.NewCore(encoder, zapcore.Lock(file), enabler)

	return zap.New(core), nil
}

// Nop returns a logger that discards everything, for when the log file
// cannot be opened.
func Nop() *zap.Logger {
	return zap.NewNop()
}
