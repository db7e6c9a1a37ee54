// Copyright 2025 The Rivaas Authors
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

package dispatchcore

import "log/slog"

// WithLogger overrides the Router's logger, which records the detail of
// every internal (500) failure, including handler panics recovered by
// invokeHandler — grounded on router/options.go's
// WithDiagnostics, simplified to log/slog directly rather than a bespoke
// DiagnosticHandler, since the core has only a couple of these sites.
func WithLogger(logger *slog.Logger) Option {
	return func(rt *Router) { rt.logger = logger }
}

// WithDefaultHandler overrides the handler invoked when no route matches
// (spec §4.6 steps 2-3).
func WithDefaultHandler(h DefaultHandler) Option {
	return func(rt *Router) { rt.defaultHandler = h }
}

// WithListener attaches a Listener observing every call's start/succeed/fail
// lifecycle (spec §4.6, §5). The default is NoopListener.
func WithListener(l Listener) Option {
	return func(rt *Router) { rt.listener = l }
}
