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

// Package nethttp is the reference net/http Transport adapter (spec §9
// supplement, spec §1: "the request-transport binding (HTTP/1.1, HTTP/2,
// framing) sits outside the module"). It is grounded on router/serve.go's
// ServeHTTP — auto-freeze on first request, build a per-request context,
// dispatch, write the result — reduced to just the framing/buffering glue
// dispatchcore.Request/Response need, since routing itself now lives in the
// core.
package nethttp

import (
	"io"
	"net/http"
	"sync"

	"github.com/rivaas-dev/dispatchcore"
)

// Handler adapts a *dispatchcore.Router to http.Handler.
type Handler struct {
	router *dispatchcore.Router

	freezeOnce sync.Once
}

// New wraps router. The Router is frozen lazily on the first request if the
// caller hasn't already called Freeze, mirroring router/serve.go's
// auto-freeze-on-first-request behavior.
func New(router *dispatchcore.Router) *Handler {
	return &Handler{router: router}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.freezeOnce.Do(h.router.Freeze)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	headers := dispatchcore.NewHeader()
	for name := range r.Header {
		headers.Set(name, r.Header.Get(name))
	}

	uri := r.URL.Path
	if r.URL.RawQuery != "" {
		uri += "?" + r.URL.RawQuery
	}

	req := &dispatchcore.Request{
		Method:      r.Method,
		URI:         uri,
		Headers:     headers,
		ContentType: r.Header.Get("Content-Type"),
		Body:        body,
	}

	h.router.Dispatch(r.Context(), w, req, func(resp dispatchcore.Response) {
		writeResponse(w, resp)
	})
}

func writeResponse(w http.ResponseWriter, resp dispatchcore.Response) {
	resp.Headers.Range(func(key, value string) {
		w.Header().Set(key, value)
	})

	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if len(resp.Body) > 0 {
		_, _ = w.Write(resp.Body)
	}
}
