package bslcheck

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// BuiltinInfo describes one platform-provided function or type.
type BuiltinInfo struct {
	RU       string `json:"ru"`
	EN       string `json:"en"`
	Category string `json:"category"`
}

// BuiltinRegistry is the catalog of platform global functions and
// constructible types, loaded from a JSON cache file. Keys are lowercased
// names; both the Russian and English spellings of an entry are indexed.
//
// Expected cache shape:
//
//	{
//	  "functions": {"сообщить": {"ru": "Сообщить", "en": "Message", "category": "..."}},
//	  "types":     {"массив":   {"ru": "Массив",   "en": "Array",   "category": "..."}}
//	}
//
// A registry that was never loaded knows no functions and no types.
type BuiltinRegistry struct {
	functions map[string]BuiltinInfo
	types     map[string]BuiltinInfo
	loaded    bool
}

// NewBuiltinRegistry creates an empty, unloaded registry.
func NewBuiltinRegistry() *BuiltinRegistry {
	return &BuiltinRegistry{
		functions: make(map[string]BuiltinInfo),
		types:     make(map[string]BuiltinInfo),
	}
}

// LoadFile reads the JSON cache at path into the registry.
func (r *BuiltinRegistry) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open builtins cache: %w", err)
	}
	defer f.Close()
	if err := r.Load(f); err != nil {
		return fmt.Errorf("builtins cache %s: %w", path, err)
	}
	return nil
}

// Load reads a JSON cache from rd into the registry, replacing any earlier
// contents and marking the registry loaded.
func (r *BuiltinRegistry) Load(rd io.Reader) error {
	var cache struct {
		Functions map[string]BuiltinInfo `json:"functions"`
		Types     map[string]BuiltinInfo `json:"types"`
	}
	dec := json.NewDecoder(rd)
	if err := dec.Decode(&cache); err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	r.functions = make(map[string]BuiltinInfo)
	r.types = make(map[string]BuiltinInfo)
	for key, info := range cache.Functions {
		r.indexEntry(r.functions, key, info)
	}
	for key, info := range cache.Types {
		r.indexEntry(r.types, key, info)
	}
	r.loaded = true
	return nil
}

// indexEntry registers an entry under its cache key plus the lowercased RU
// and EN spellings, so lookups succeed in either language.
func (r *BuiltinRegistry) indexEntry(dst map[string]BuiltinInfo, key string, info BuiltinInfo) {
	dst[lowerFold(key)] = info
	if info.RU != "" {
		dst[lowerFold(info.RU)] = info
	}
	if info.EN != "" {
		dst[lowerFold(info.EN)] = info
	}
}

// Loaded reports whether a cache has been read into the registry.
func (r *BuiltinRegistry) Loaded() bool { return r.loaded }

// IsFunction reports whether name is a known global function.
func (r *BuiltinRegistry) IsFunction(name string) bool {
	_, ok := r.functions[lowerFold(name)]
	return ok
}

// IsType reports whether name is a known constructible type.
func (r *BuiltinRegistry) IsType(name string) bool {
	_, ok := r.types[lowerFold(name)]
	return ok
}

// FunctionInfo returns details for a known global function.
func (r *BuiltinRegistry) FunctionInfo(name string) (BuiltinInfo, bool) {
	info, ok := r.functions[lowerFold(name)]
	return info, ok
}

// TypeInfo returns details for a known constructible type.
func (r *BuiltinRegistry) TypeInfo(name string) (BuiltinInfo, bool) {
	info, ok := r.types[lowerFold(name)]
	return info, ok
}

// FunctionCount is the number of indexed function names.
func (r *BuiltinRegistry) FunctionCount() int { return len(r.functions) }

// TypeCount is the number of indexed type names.
func (r *BuiltinRegistry) TypeCount() int { return len(r.types) }
