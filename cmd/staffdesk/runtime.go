package main

import (
	"fmt"
	"strings"

	"github.com/kingrea/staffdesk/internal/config"
	"github.com/kingrea/staffdesk/internal/gateway"
	"github.com/kingrea/staffdesk/internal/logbook"
	"github.com/kingrea/staffdesk/internal/logging"
	"github.com/kingrea/staffdesk/internal/session"
)

// runtime bundles what every subcommand opens: config, the HTTP trace log,
// the activity journal, and the session store.
type runtime struct {
	cfg      *config.Config
	trace    *logging.Logger
	journal  *logbook.Logbook
	sessions *session.Store
}

func openRuntime(home string) (*runtime, error) {
	root := strings.TrimSpace(home)
	if root == "" {
		var err error
		root, err = config.DefaultRoot()
		if err != nil {
			return nil, err
		}
	}
	if err := config.InitDir(root); err != nil {
		return nil, err
	}
	cfg, err := config.New(root)
	if err != nil {
		return nil, err
	}
	trace, err := logging.New(cfg.TracePath())
	if err != nil {
		return nil, err
	}
	journal, err := logbook.New(cfg.JournalPath())
	if err != nil {
		_ = trace.Close()
		return nil, err
	}
	return &runtime{
		cfg:      cfg,
		trace:    trace,
		journal:  journal,
		sessions: session.NewStore(cfg.SessionPath()),
	}, nil
}

func (r *runtime) gateway() (*gateway.Client, error) {
	client, err := gateway.New(r.cfg.BaseURL(),
		gateway.WithTimeout(r.cfg.Settings.API.Timeout),
		gateway.WithLogger(r.trace),
	)
	if err != nil {
		return nil, fmt.Errorf("staffdesk: %w", err)
	}
	return client, nil
}

func (r *runtime) Close() {
	if r == nil {
		return
	}
	_ = r.trace.Close()
}
