package tunnel

import (
	"net/http"
	"strings"
)

// hopByHop lists headers that describe a single transport hop and must not
// be relayed through the tunnel.
var hopByHop = map[string]struct{}{
	"Connection":          {},
	"Keep-Alive":          {},
	"Proxy-Authenticate":  {},
	"Proxy-Authorization": {},
	"Proxy-Connection":    {},
	"Te":                  {},
	"Trailer":             {},
	"Transfer-Encoding":   {},
	"Upgrade":             {},
}

// connectionListed returns the canonical names listed in Connection values.
func connectionListed(values []string) map[string]struct{} {
	listed := make(map[string]struct{})
	for _, v := range values {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				listed[http.CanonicalHeaderKey(name)] = struct{}{}
			}
		}
	}
	return listed
}

func isHopByHop(key string, listed map[string]struct{}) bool {
	if _, ok := hopByHop[key]; ok {
		return true
	}
	_, ok := listed[key]
	return ok
}

// FlattenHeaders converts h to the single-valued wire form. Hop-by-hop
// headers are dropped and repeated values are joined with ", ".
func FlattenHeaders(h http.Header) map[string]string {
	listed := connectionListed(h.Values("Connection"))
	out := make(map[string]string, len(h))
	for key, values := range h {
		key = http.CanonicalHeaderKey(key)
		if isHopByHop(key, listed) || len(values) == 0 {
			continue
		}
		out[key] = strings.Join(values, ", ")
	}
	return out
}

// ExpandHeaders converts wire headers back to http.Header, dropping
// hop-by-hop headers.
func ExpandHeaders(m map[string]string) http.Header {
	var connection []string
	for key, v := range m {
		if http.CanonicalHeaderKey(key) == "Connection" {
			connection = append(connection, v)
		}
	}
	listed := connectionListed(connection)

	h := make(http.Header, len(m))
	for key, v := range m {
		key = http.CanonicalHeaderKey(key)
		if isHopByHop(key, listed) {
			continue
		}
		h.Set(key, v)
	}
	return h
}
