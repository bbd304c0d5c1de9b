// Package store selects the active prompt store backend. The choice is made
// once per process: a reachable remote backend is authoritative for the
// whole session, anything else falls back to the local file. Re-probing per
// call would risk mixing reads from two sources within one session.
package store

import (
	"context"
	"time"

	"github.com/vibelab/promptrec/internal/adapters/driven/store/localfile"
	"github.com/vibelab/promptrec/internal/adapters/driven/store/remote"
	"github.com/vibelab/promptrec/internal/core/ports/driven"
	"github.com/vibelab/promptrec/internal/logger"
)

// DefaultPingTimeout bounds the reachability probe so a slow remote cannot
// stall startup.
const DefaultPingTimeout = 5 * time.Second

// Options configures backend selection.
type Options struct {
	// RemoteURL and RemoteKey configure the remote backend. Both must be
	// present for the remote to be considered at all.
	RemoteURL string
	RemoteKey string

	// LocalPath is the fallback JSON file location.
	LocalPath string

	// PingTimeout bounds the remote reachability probe.
	PingTimeout time.Duration
}

// Select returns the prompt store for this session. Remote configured and
// reachable wins; a missing configuration or failed probe is a logged
// fallback to the local file, not an error.
func Select(ctx context.Context, opts Options) (driven.PromptStore, error) {
	if opts.RemoteURL != "" && opts.RemoteKey != "" {
		if s := tryRemote(ctx, opts); s != nil {
			return s, nil
		}
	} else {
		logger.Debug("Remote store not configured, using local file")
	}

	local, err := localfile.New(opts.LocalPath)
	if err != nil {
		return nil, err
	}
	logger.Info("Prompt store backend: local (%s)", local.Path())
	return local, nil
}

func tryRemote(ctx context.Context, opts Options) driven.PromptStore {
	s, err := remote.New(remote.Config{URL: opts.RemoteURL, Key: opts.RemoteKey})
	if err != nil {
		logger.Warn("Remote store misconfigured, falling back to local file: %v", err)
		return nil
	}

	timeout := opts.PingTimeout
	if timeout == 0 {
		timeout = DefaultPingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.Ping(pingCtx); err != nil {
		logger.Warn("Remote store unreachable, falling back to local file: %v", err)
		return nil
	}

	logger.Info("Prompt store backend: remote (%s)", opts.RemoteURL)
	return s
}
