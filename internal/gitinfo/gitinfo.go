// Package gitinfo answers two read-only questions about the project's git
// state: what is the current commit, and where is the repository hosted.
// It never mutates the working tree — all writes happen through the
// assistant's own git usage.
package gitinfo

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"golang.org/x/sync/errgroup"
)

// ShortHashLen is the abbreviated commit hash length used for display.
const ShortHashLen = 7

// Runner executes an external command and returns its combined output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec in a fixed working directory.
type ExecRunner struct {
	Dir string
}

// Run executes the command and returns stdout, with stderr folded into the
// returned error on failure.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir

	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return out, nil
}

// CommitInfo identifies the latest commit, with an optional hosted URL.
type CommitInfo struct {
	Hash      string
	ShortHash string
	URL       string
}

// Inspector queries commit identity through a Runner.
type Inspector struct {
	runner Runner
}

// NewInspector creates an Inspector backed by the given runner.
func NewInspector(runner Runner) *Inspector {
	return &Inspector{runner: runner}
}

// Head returns the current commit. The hash lookup is required; the hosted
// URL lookup is best-effort and its failure leaves URL empty. The two
// queries run concurrently since neither depends on the other.
func (i *Inspector) Head(ctx context.Context) (*CommitInfo, error) {
	var (
		hash      string
		remoteURL string
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		out, err := i.runner.Run(gctx, "git", "rev-parse", "HEAD")
		if err != nil {
			return fmt.Errorf("resolving HEAD: %w", err)
		}
		hash = strings.TrimSpace(string(out))
		return nil
	})

	g.Go(func() error {
		out, err := i.runner.Run(gctx, "git", "config", "--get", "remote.origin.url")
		if err != nil {
			// No remote configured is a normal state for local-only
			// repositories.
			return nil
		}
		remoteURL = strings.TrimSpace(string(out))
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if hash == "" {
		return nil, fmt.Errorf("git returned an empty commit hash")
	}

	info := &CommitInfo{
		Hash:      hash,
		ShortHash: shortHash(hash),
	}

	if repoURL := NormalizeRemote(remoteURL); repoURL != "" {
		info.URL = repoURL + "/commit/" + hash
	}

	return info, nil
}

func shortHash(hash string) string {
	if len(hash) <= ShortHashLen {
		return hash
	}
	return hash[:ShortHashLen]
}

// NormalizeRemote converts a git remote URL to a browsable https URL.
// Returns "" when the remote is empty or not recognizable.
func NormalizeRemote(remote string) string {
	remote = strings.TrimSpace(remote)
	if remote == "" {
		return ""
	}

	// scp-like syntax: git@github.com:owner/repo.git
	if strings.HasPrefix(remote, "git@") {
		rest := strings.TrimPrefix(remote, "git@")
		host, path, ok := strings.Cut(rest, ":")
		if !ok || host == "" || path == "" {
			return ""
		}
		remote = "https://" + host + "/" + path
	}

	// ssh://git@host/owner/repo.git
	if strings.HasPrefix(remote, "ssh://") {
		rest := strings.TrimPrefix(remote, "ssh://")
		rest = strings.TrimPrefix(rest, "git@")
		remote = "https://" + rest
	}

	if !strings.HasPrefix(remote, "http://") && !strings.HasPrefix(remote, "https://") {
		return ""
	}

	return strings.TrimSuffix(strings.TrimSuffix(remote, "/"), ".git")
}
