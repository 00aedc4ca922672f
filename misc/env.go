package misc

import (
	"sort"
	"strings"
)

// MergeEnv returns a copy of base (KEY=VALUE entries) with overrides applied.
// Overridden keys keep their original position; new keys are appended in
// sorted order so the result is stable.
func MergeEnv(base []string, overrides map[string]string) []string {
	out := make([]string, 0, len(base)+len(overrides))
	seen := make(map[string]bool, len(overrides))
	for _, kv := range base {
		key := kv
		if idx := strings.IndexByte(kv, '='); idx >= 0 {
			key = kv[:idx]
		}
		if val, ok := overrides[key]; ok {
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, key+"="+val)
			continue
		}
		out = append(out, kv)
	}

	var added []string
	for key := range overrides {
		if !seen[key] {
			added = append(added, key)
		}
	}
	sort.Strings(added)
	for _, key := range added {
		out = append(out, key+"="+overrides[key])
	}
	return out
}

// LookupEnv finds key in a KEY=VALUE list. The last entry wins, as with
// os/exec.
func LookupEnv(env []string, key string) (string, bool) {
	prefix := key + "="
	for i := len(env) - 1; i >= 0; i-- {
		if strings.HasPrefix(env[i], prefix) {
			return env[i][len(prefix):], true
		}
	}
	return "", false
}
