package distiller

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/maypok86/otter"

	"github.com/mvp-joe/distill/internal/distiller/extraction"
	"github.com/mvp-joe/distill/internal/distiller/parsers"
)

type cachedParse struct {
	api *extraction.CanonicalAPI
	err error
}

// parseCache remembers the canonical API of file contents already parsed in
// this run, so identical files are parsed once. It lives for one run.
type parseCache struct {
	entries otter.Cache[string, cachedParse]
}

func newParseCache(capacity int) (*parseCache, error) {
	if capacity < 1 {
		capacity = 1
	}
	entries, err := otter.MustBuilder[string, cachedParse](capacity).Build()
	if err != nil {
		return nil, err
	}
	return &parseCache{entries: entries}, nil
}

func contentKey(language string, content []byte) string {
	sum := sha256.Sum256(content)
	return language + ":" + hex.EncodeToString(sum[:])
}

// extract parses and converts content, or reuses the result for identical
// content. The returned API is a copy whose File is rel.
func (c *parseCache) extract(parser parsers.Parser, rel, language string, content []byte) (*extraction.CanonicalAPI, error) {
	key := contentKey(language, content)
	if hit, ok := c.entries.Get(key); ok {
		return withFile(hit.api, rel, language), hit.err
	}

	pf := parser.Parse(rel, content, language)
	api, err := parser.Extract(pf)
	pf.Close()

	c.entries.Set(key, cachedParse{api: api, err: err})
	return withFile(api, rel, language), err
}

func (c *parseCache) Close() {
	c.entries.Close()
}

func withFile(api *extraction.CanonicalAPI, rel, language string) *extraction.CanonicalAPI {
	if api == nil {
		return extraction.NewCanonicalAPI(rel, language)
	}
	cp := *api
	cp.File = rel
	return &cp
}
