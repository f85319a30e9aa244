package gitinfo

import (
	"fmt"

	"github.com/go-git/go-git/v5"
)

const shortHashLen = 12

// Repo reads git evidence for a project root. It only looks at the root
// itself; a repository in a parent directory does not count.
type Repo struct{}

func New() *Repo {
	return &Repo{}
}

func (r *Repo) IsGitRepo(projectPath string) bool {
	_, err := git.PlainOpen(projectPath)
	return err == nil
}

// Revision labels a compiled rule set with the commit it was built from:
// "branch@hash" on a branch, the bare short hash when HEAD is detached.
func (r *Repo) Revision(projectPath string) (string, error) {
	repo, err := git.PlainOpen(projectPath)
	if err != nil {
		return "", fmt.Errorf("opening %s as git repository: %w", projectPath, err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolving HEAD in %s: %w", projectPath, err)
	}

	short := head.Hash().String()[:shortHashLen]
	if !head.Name().IsBranch() {
		return short, nil
	}
	return head.Name().Short() + "@" + short, nil
}
