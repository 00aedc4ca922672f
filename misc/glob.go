package misc

import (
	"path/filepath"
	"sort"

	"github.com/chzyer/logex"
)

// GlobSortList expands patterns into a sorted list without duplicates.
// Overlapping patterns such as "target/release/*" and
// "target/release/full-service" contribute each file once.
func GlobSortList(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var allList []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, logex.Trace(err, pattern)
		}
		for _, match := range matches {
			if seen[match] {
				continue
			}
			seen[match] = true
			allList = append(allList, match)
		}
	}
	sort.Strings(allList)
	return allList, nil
}
