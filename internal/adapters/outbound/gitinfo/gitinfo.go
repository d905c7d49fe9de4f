package gitinfo

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"

	"github.com/abdidvp/sonarfix/internal/domain"
)

// ErrDetachedHead is returned when HEAD does not point at a branch.
var ErrDetachedHead = errors.New("HEAD is detached")

var _ domain.GitInfo = (*GitInfoAdapter)(nil)

// GitInfoAdapter implements domain.GitInfo using go-git.
type GitInfoAdapter struct{}

func New() *GitInfoAdapter {
	return &GitInfoAdapter{}
}

func (g *GitInfoAdapter) IsGitRepo(projectPath string) bool {
	_, err := open(projectPath)
	return err == nil
}

// CurrentBranch returns the short name of the branch checked out in the
// repository containing projectPath.
func (g *GitInfoAdapter) CurrentBranch(projectPath string) (string, error) {
	repo, err := open(projectPath)
	if err != nil {
		return "", fmt.Errorf("opening git repo: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", fmt.Errorf("%w at %s", ErrDetachedHead, head.Hash())
	}

	return head.Name().Short(), nil
}

func open(projectPath string) (*git.Repository, error) {
	return git.PlainOpenWithOptions(projectPath, &git.PlainOpenOptions{DetectDotGit: true})
}
