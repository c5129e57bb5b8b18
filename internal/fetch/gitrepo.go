// Package fetch manages a local cache of git-hosted rules-file
// repositories, so a `--rules` invocation can be pointed at a local path
// inside a cached checkout.
package fetch

import (
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/daedaleanai/brammap/log"
	"github.com/daedaleanai/brammap/util"
)

// Repo is a git-backed rules repository checked out under the local cache
// directory.
type Repo struct {
	path string
	repo *git.Repository
}

// Path returns the on-disk path of the checked-out repository.
func (r *Repo) Path() string {
	return r.path
}

// cachePath derives the on-disk cache directory for a repository URL: the
// last path component of the URL, joined onto cacheDir.
func cachePath(cacheDir, url string) string {
	return filepath.Join(cacheDir, filepath.Base(url))
}

// Get returns the local Repo for url, cloning it into cacheDir if it is not
// already present, or fetching updates into an existing checkout otherwise.
func Get(cacheDir, url, version string) (*Repo, error) {
	path := cachePath(cacheDir, url)

	var repo *git.Repository
	if util.DirExists(path) {
		var err error
		repo, err = git.PlainOpen(path)
		if err != nil {
			return nil, err
		}
		log.Log("Fetching updates for '%s'.\n", url)
		log.Spinner.Start()
		err = repo.Fetch(&git.FetchOptions{})
		log.Spinner.Stop()
		if err != nil && err != git.NoErrAlreadyUpToDate {
			return nil, err
		}
	} else {
		if err := os.MkdirAll(cacheDir, 0755); err != nil {
			return nil, err
		}
		log.Log("Cloning '%s'.\n", url)
		log.Spinner.Start()
		var err error
		repo, err = git.PlainClone(path, false, &git.CloneOptions{URL: url})
		log.Spinner.Stop()
		if err != nil {
			return nil, err
		}
	}

	r := &Repo{path: path, repo: repo}
	if version != "" {
		if err := r.checkout(version); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// checkout switches the repository's worktree to version, which may be a
// branch name, tag, or commit hash.
func (r *Repo) checkout(version string) error {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return err
	}

	hash, err := r.repo.ResolveRevision(plumbing.Revision(version))
	if err != nil {
		return err
	}
	log.Debug("Version '%s' was resolved to commit hash '%s'.\n", version, hash.String())

	return worktree.Checkout(&git.CheckoutOptions{Hash: *hash})
}
