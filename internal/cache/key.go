package cache

import (
	"net/url"
	"sort"
	"strings"
)

// AnonymousIdentity keys responses that do not depend on a caller.
const AnonymousIdentity = "anon"

// Key derives a deterministic cache key from the caller identity and the
// request query parameters. Parameter keys are sorted so equivalent requests
// with reordered parameters map to the same entry.
func Key(prefix, identity string, params map[string]string) string {
	if identity == "" {
		identity = AnonymousIdentity
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, url.QueryEscape(k)+"="+url.QueryEscape(params[k]))
	}

	var b strings.Builder
	b.WriteString(prefix)
	b.WriteByte(':')
	b.WriteString(identity)
	b.WriteByte(':')
	b.WriteString(strings.Join(pairs, "&"))
	return b.String()
}
