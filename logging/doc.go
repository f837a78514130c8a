// Copyright 2025 The Titon Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logging configures structured logging on top of log/slog.
//
// A [Logger] owns one slog handler (JSON, text or a colored console format),
// stamps service metadata on every record and redacts sensitive attributes
// (password, token, secret, api_key, authorization). Other packages take a
// plain *slog.Logger; pass [Logger.Logger] to them.
//
//	log := logging.MustNew(
//	    logging.WithConsoleHandler(),
//	    logging.WithServiceName("shop"),
//	    logging.WithLevel(logging.LevelDebug),
//	)
//	defer log.Shutdown(context.Background())
//
//	r := router.MustNew(router.WithLogger(log.Logger()))
package logging
