package tui

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/pasarkampus/pasar/pkg/client"
)

// apiCall is one request the fake API received.
type apiCall struct {
	method string
	path   string
	query  string
	body   map[string]any
}

// fakeAPI answers "METHOD /path" keys with canned JSON and records every call.
type fakeAPI struct {
	mu     sync.Mutex
	calls  []apiCall
	routes map[string]any
	status map[string]int
}

func newFakeAPI(t *testing.T, routes map[string]any) (*fakeAPI, *client.Client) {
	t.Helper()
	f := &fakeAPI{routes: routes, status: map[string]int{}}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, client.New(srv.URL, client.StaticToken("tok"))
}

func (f *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	call := apiCall{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery}
	if data, _ := io.ReadAll(r.Body); len(data) > 0 { //nolint:errcheck
		json.Unmarshal(data, &call.body) //nolint:errcheck
	}
	f.mu.Lock()
	f.calls = append(f.calls, call)
	k := r.Method + " " + r.URL.Path
	resp, ok := f.routes[k]
	status := f.status[k]
	f.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]string{"message": http.StatusText(status)}) //nolint:errcheck
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	if resp == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	json.NewEncoder(w).Encode(resp) //nolint:errcheck
}

func (f *fakeAPI) fail(route string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status[route] = status
}

func (f *fakeAPI) last() apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return apiCall{}
	}
	return f.calls[len(f.calls)-1]
}

func (f *fakeAPI) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
