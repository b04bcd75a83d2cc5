package fetch

import (
	"context"
	"os"
	"path/filepath"

	git "gopkg.in/src-d/go-git.v4"

	"github.com/sctp-dsai/lessonctl/pkg/errors"
)

// A Fetcher retrieves a complete, fresh snapshot of an upstream source into a
// local directory. The contract only requires a reproducible snapshot, so any
// retrieval mechanism (git clone, archive download) can implement it.
type Fetcher interface {
	Fetch(ctx context.Context, source, dst string) error
}

type gitFetcher struct{}

// NewGitFetcher returns a Fetcher that shallow-clones the source repository
// and strips its history, leaving a plain file tree.
func NewGitFetcher() Fetcher {
	return gitFetcher{}
}

func (gitFetcher) Fetch(ctx context.Context, source, dst string) error {
	_, err := git.PlainCloneContext(ctx, dst, false, &git.CloneOptions{
		URL:          source,
		Depth:        1,
		SingleBranch: true,
	})
	if err != nil {
		return errors.WithContext(err, "clone")
	}

	// The snapshot is a plain copy of the upstream tree. The clone's history
	// would otherwise get installed into the lesson directory.
	if err := os.RemoveAll(filepath.Join(dst, ".git")); err != nil {
		return errors.WithContext(err, "strip history")
	}
	return nil
}
