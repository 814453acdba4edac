// Package swaggerkit assembles an OpenAPI 3 document from the operations
// modules describe at mount time and serves it with the swagger UI
package swaggerkit

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"sync"

	phttp "incidencia/internal/platform/net/http"
)

// Operation describes one endpoint
type Operation struct {
	Method  string
	Path    string // relative to the API base, e.g. /pivot/sessions/{id}
	Tag     string
	Summary string
	Secured bool
}

// Doc collects operations; the zero value is not usable, call New
type Doc struct {
	mu    sync.Mutex
	title string
	ver   string
	base  string
	ops   []Operation
}

// New returns an empty document for an API served under base
func New(title, version, base string) *Doc {
	return &Doc{title: title, ver: version, base: base}
}

// Add records ops
func (d *Doc) Add(ops ...Operation) {
	if d == nil {
		return
	}
	d.mu.Lock()
	d.ops = append(d.ops, ops...)
	d.mu.Unlock()
}

// Spec renders the document as a generic JSON tree
func (d *Doc) Spec() map[string]any {
	d.mu.Lock()
	ops := append([]Operation(nil), d.ops...)
	d.mu.Unlock()
	sort.SliceStable(ops, func(i, j int) bool { return ops[i].Path < ops[j].Path })

	paths := map[string]any{}
	for _, op := range ops {
		node, _ := paths[op.Path].(map[string]any)
		if node == nil {
			node = map[string]any{}
			paths[op.Path] = node
		}
		o := map[string]any{
			"summary":   op.Summary,
			"responses": defaultResponses(),
		}
		if op.Tag != "" {
			o["tags"] = []any{op.Tag}
		}
		if params := pathParams(op.Path); len(params) > 0 {
			o["parameters"] = params
		}
		if op.Secured {
			o["security"] = []any{map[string]any{"bearer": []any{}}}
		}
		node[strings.ToLower(op.Method)] = o
	}

	return map[string]any{
		"openapi": "3.0.3",
		"info":    map[string]any{"title": d.title, "version": d.ver},
		"servers": []any{map[string]any{"url": d.base}},
		"paths":   paths,
		"components": map[string]any{
			"schemas": map[string]any{"Envelope": envelopeSchema()},
			"securitySchemes": map[string]any{
				"bearer": map[string]any{"type": "http", "scheme": "bearer"},
			},
		},
	}
}

// Mount serves the document at /api/docs/doc.json and the UI under /api/docs
func (d *Doc) Mount(r phttp.Router, enabled bool) {
	if !enabled || d == nil {
		return
	}
	r.Get("/api/docs", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/api/docs/index.html", http.StatusPermanentRedirect)
	})
	r.Get("/api/docs/doc.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(d.Spec())
	})
	phttp.MountSwagger(r, "/api/docs", "/api/docs/doc.json", true)
}

func pathParams(p string) []any {
	var out []any
	for _, seg := range strings.Split(p, "/") {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			out = append(out, map[string]any{
				"name":     strings.Trim(seg, "{}"),
				"in":       "path",
				"required": true,
				"schema":   map[string]any{"type": "string"},
			})
		}
	}
	return out
}

func defaultResponses() map[string]any {
	ref := func(desc string) map[string]any {
		return map[string]any{
			"description": desc,
			"content": map[string]any{
				"application/json": map[string]any{
					"schema": map[string]any{"$ref": "#/components/schemas/Envelope"},
				},
			},
		}
	}
	return map[string]any{
		"200": ref("OK"),
		"400": ref("Bad Request"),
		"404": ref("Not Found"),
		"500": ref("Internal Server Error"),
	}
}

// envelopeSchema mirrors pnet.Wire
func envelopeSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"status_code": map[string]any{"type": "integer", "format": "int32"},
			"status":      map[string]any{"type": "string"},
			"code":        map[string]any{"type": "integer", "format": "int32"},
			"kind":        map[string]any{"type": "string"},
			"error":       map[string]any{"type": "string"},
			"field":       map[string]any{"type": "string"},
			"request_id":  map[string]any{"type": "string"},
			"data":        map[string]any{},
		},
		"required": []any{"status_code", "status"},
	}
}
