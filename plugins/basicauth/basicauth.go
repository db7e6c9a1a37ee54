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

// Package basicauth is the worked PasswordPlugin example (spec §4.4, §8
// scenario R5): it injects an Internal "password" argument at registration
// and, since Internal args are "populated by the transport/plugin ... not
// from the wire", reads the raw query string itself at call time and
// rejects a mismatch with Unauthorized.
//
// Grounded on middleware/basicauth's options shape (WithRealm, WithUsers)
// and its stated use of constant-time comparison for credentials, adapted
// from an HTTP-header-carried credential to the spec's query-parameter one.
package basicauth

import (
	"crypto/subtle"

	"github.com/rivaas-dev/dispatchcore"
)

type config struct {
	password string
	argName  string
}

// Option configures a Plugin.
type Option func(*config)

// WithPassword sets the expected password value routes protected by this
// Plugin must present as a query parameter.
func WithPassword(password string) Option {
	return func(c *config) { c.password = password }
}

// WithArgName overrides the injected argument's name (default "password").
func WithArgName(name string) Option {
	return func(c *config) { c.argName = name }
}

// Plugin is the PasswordPlugin from spec §8: GET /auth/ping?password=wrong
// must fail with 401.
type Plugin struct {
	cfg config
}

// New builds a Plugin. WithPassword is required; a Plugin with an empty
// expected password rejects every call.
func New(opts ...Option) *Plugin {
	cfg := config{argName: "password"}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Plugin{cfg: cfg}
}

func (p *Plugin) Name() string { return "basicauth" }

// pluginState is the per-route context ModifyRoute hands back to ModifyCall.
type pluginState struct {
	argIndex int
}

func (p *Plugin) ModifyRoute(modifier dispatchcore.RouteModifier, properties any) any {
	idx := modifier.AddArg(p.cfg.argName, dispatchcore.ArgString, nil)
	return pluginState{argIndex: idx}
}

func (p *Plugin) ModifyCall(ctx any, rc *dispatchcore.RouteContext, done func(error)) {
	state := ctx.(pluginState)
	value := rc.QueryValue(p.cfg.argName)
	rc.Args[state.argIndex] = value

	if p.cfg.password == "" || subtle.ConstantTimeCompare([]byte(value), []byte(p.cfg.password)) != 1 {
		done(dispatchcore.Unauthorized("invalid %s", p.cfg.argName))
		return
	}
	done(nil)
}
