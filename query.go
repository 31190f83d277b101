package barter

import (
	"fmt"
	"sort"
	"strings"
)

// QueryHandler answers a read only request. The caller serializes the
// result.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, data []byte) (interface{}, error)
}

// QueryFunc is a QueryHandler in a single function.
type QueryFunc func(db ReadOnlyKVStore, data []byte) (interface{}, error)

func (f QueryFunc) Query(db ReadOnlyKVStore, data []byte) (interface{}, error) {
	return f(db, data)
}

// QueryRegister adds the queries of one extension.
type QueryRegister func(QueryRouter)

// QueryRouter maps absolute paths such as "/escrows/maker" to handlers.
type QueryRouter struct {
	routes map[string]QueryHandler
}

func NewQueryRouter() QueryRouter {
	return QueryRouter{routes: make(map[string]QueryHandler)}
}

func (r QueryRouter) RegisterAll(regs ...QueryRegister) {
	for _, reg := range regs {
		reg(r)
	}
}

// Register panics if path is not absolute or is taken. Call it at startup.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if !strings.HasPrefix(path, "/") {
		panic(fmt.Sprintf("query path %q must start with /", path))
	}
	if _, taken := r.routes[path]; taken {
		panic(fmt.Sprintf("query path %q registered twice", path))
	}
	r.routes[path] = h
}

// Handler returns nil for an unknown path.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}

// Paths lists the registered paths in order.
func (r QueryRouter) Paths() []string {
	paths := make([]string, 0, len(r.routes))
	for p := range r.routes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
