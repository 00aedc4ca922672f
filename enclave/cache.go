// Package enclave keeps the per-network cache of consensus enclave
// sigstructs under ~/.mobilecoin.
package enclave

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/chzyer/logex"
	"github.com/gofrs/flock"
	"github.com/mobilecoinofficial/fs-build/misc"
	"github.com/mobilecoinofficial/fs-build/network"
)

const (
	CacheDirName = ".mobilecoin"
	lockFileName = ".lock"
	lockRetry    = 100 * time.Millisecond
)

type Cache struct {
	Root   string
	client *http.Client
}

func NewCache(root string, client *http.Client) *Cache {
	if client == nil {
		client = http.DefaultClient
	}
	return &Cache{Root: root, client: client}
}

// DefaultRoot returns <home>/.mobilecoin, using the user home directory when
// home is empty.
func DefaultRoot(home string) (string, error) {
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return "", logex.Trace(err)
		}
	}
	return filepath.Join(home, CacheDirName), nil
}

func (c *Cache) Dir(name network.Name) string {
	return filepath.Join(c.Root, string(name))
}

func (c *Cache) Path(name network.Name) string {
	return filepath.Join(c.Dir(name), network.SigstructFile)
}

// Ensure returns the path of the cached sigstruct for p, downloading it first
// when it is missing and the profile publishes one. Resolution and download
// failures are only logged; the returned error is always the final existence
// check.
func (c *Cache) Ensure(ctx context.Context, p *network.Profile) (string, error) {
	dir := c.Dir(p.Name)
	fp := c.Path(p.Name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", logex.Trace(err, dir)
	}

	lock := flock.New(filepath.Join(dir, lockFileName))
	locked, err := lock.TryLockContext(ctx, lockRetry)
	if err != nil {
		return "", logex.Trace(err, lock.Path())
	}
	if !locked {
		return "", logex.NewErrorf("%v: lock not acquired", lock.Path())
	}
	defer lock.Unlock()

	if exists(fp) {
		logex.Infof("using cached sigstruct: %v", fp)
		return fp, nil
	}

	var uri string
	if p.FetchSigstruct {
		var err error
		uri, err = network.FetchSigstructURI(ctx, c.client, p)
		if err != nil {
			logex.Error("resolve sigstruct uri fail:", err)
		}
	}
	if uri != "" {
		if err := c.download(ctx, p.ArtifactURL(uri), fp); err != nil {
			logex.Error("download sigstruct fail:", err)
		}
	}

	if !exists(fp) {
		return "", logex.NewErrorf("%v not found at %v", network.SigstructFile, fp).SetCode(1)
	}
	return fp, nil
}

// download writes the artifact next to fp and renames it into place once it
// parses as a sigstruct, so fp never holds a partial file.
func (c *Cache) download(ctx context.Context, uri, fp string) error {
	logex.Infof("downloading %v", uri)
	data, err := misc.Download(ctx, c.client, uri)
	if err != nil {
		return logex.Trace(err)
	}
	if err := misc.CheckSigstruct(data); err != nil {
		return logex.Trace(err, uri)
	}

	tmp, err := os.CreateTemp(filepath.Dir(fp), "."+network.SigstructFile+"-*")
	if err != nil {
		return logex.Trace(err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return logex.Trace(err)
	}
	if err := tmp.Close(); err != nil {
		return logex.Trace(err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return logex.Trace(err)
	}
	if err := os.Rename(tmp.Name(), fp); err != nil {
		return logex.Trace(err)
	}
	logex.Infof("saved sigstruct to: %v", fp)
	return nil
}

func exists(fp string) bool {
	fi, err := os.Stat(fp)
	return err == nil && !fi.IsDir()
}
