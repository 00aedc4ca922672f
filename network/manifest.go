package network

import (
	"context"
	"encoding/json"
	"net/http"
	"path"
	"sort"
	"strings"

	"github.com/chzyer/logex"
	"github.com/mobilecoinofficial/fs-build/misc"
)

// SigstructFile is the base name of the consensus enclave signature
// artifact, both in the distribution pool and in the local cache.
const SigstructFile = "consensus-enclave.css"

// Manifest is a decoded production.json published by an enclave
// distribution endpoint.
type Manifest struct {
	raw map[string]interface{}
}

func ParseManifest(data []byte) (*Manifest, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, logex.Trace(err)
	}
	return &Manifest{raw: raw}, nil
}

// ConsensusSigstruct returns the pool path of the consensus enclave
// sigstruct, or "" if the manifest does not name one. consensus.sigstruct is
// preferred; otherwise the first string value, in sorted key order, whose
// base name is consensus-enclave.css.
func (m *Manifest) ConsensusSigstruct() string {
	if consensus, ok := m.raw["consensus"].(map[string]interface{}); ok {
		if uri, ok := consensus["sigstruct"].(string); ok {
			if uri = SanitizeURI(uri); uri != "" {
				return uri
			}
		}
	}
	return findSigstruct(m.raw)
}

func findSigstruct(v interface{}) string {
	switch val := v.(type) {
	case string:
		uri := SanitizeURI(val)
		if path.Base(uri) == SigstructFile {
			return uri
		}
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for key := range val {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if uri := findSigstruct(val[key]); uri != "" {
				return uri
			}
		}
	case []interface{}:
		for _, item := range val {
			if uri := findSigstruct(item); uri != "" {
				return uri
			}
		}
	}
	return ""
}

// SanitizeURI strips the whitespace, quotes and trailing commas that leak in
// when the value is scraped from the manifest text.
func SanitizeURI(uri string) string {
	return strings.Trim(strings.TrimSpace(uri), "\"', \t")
}

// FetchSigstructURI downloads the production manifest of p and returns the
// consensus sigstruct path it names.
func FetchSigstructURI(ctx context.Context, client *http.Client, p *Profile) (string, error) {
	data, err := misc.Download(ctx, client, p.ManifestURL())
	if err != nil {
		return "", logex.Trace(err)
	}
	manifest, err := ParseManifest(data)
	if err != nil {
		return "", logex.Trace(err, p.ManifestURL())
	}
	uri := manifest.ConsensusSigstruct()
	if uri == "" {
		return "", logex.NewErrorf("%v does not name a %v", p.ManifestURL(), SigstructFile)
	}
	return uri, nil
}
