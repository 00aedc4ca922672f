package misc

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/logex"
)

type GitInfo struct {
	Commit string
}

// GetGitInfo resolves HEAD of the repository at dir without shelling out to
// git. Loose refs are tried before packed-refs.
func GetGitInfo(dir string) (*GitInfo, error) {
	gitDir := filepath.Join(dir, ".git")
	data, err := os.ReadFile(filepath.Join(gitDir, "HEAD"))
	if err != nil {
		return nil, logex.Trace(err)
	}
	head := strings.TrimSpace(string(data))
	if !strings.HasPrefix(head, "ref: ") {
		return &GitInfo{Commit: head}, nil
	}
	ref := strings.TrimPrefix(head, "ref: ")

	data, err = os.ReadFile(filepath.Join(gitDir, filepath.FromSlash(ref)))
	if err == nil {
		return &GitInfo{Commit: strings.TrimSpace(string(data))}, nil
	}
	if !os.IsNotExist(err) {
		return nil, logex.Trace(err)
	}

	fd, err := os.Open(filepath.Join(gitDir, "packed-refs"))
	if err != nil {
		return nil, logex.Trace(err, ref)
	}
	defer fd.Close()
	scanner := bufio.NewScanner(fd)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 2 && fields[1] == ref {
			return &GitInfo{Commit: fields[0]}, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, logex.Trace(err)
	}
	return nil, logex.NewErrorf("ref %v not found", ref)
}
