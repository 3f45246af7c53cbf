package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/steelcutops/steelcut-mas/logger"
	"github.com/steelcutops/steelcut-mas/steelcut/appstore"
	"github.com/steelcutops/steelcut-mas/steelcut/host"
	"github.com/steelcutops/steelcut-mas/steelcut/hostgroup"
	"gopkg.in/yaml.v3"
)

// hostAction produces the value printed for one host.
type hostAction func(ctx context.Context, h *host.Host) (any, error)

// hostFailure fails a host but still has output worth printing.
type hostFailure struct {
	output any
	msg    string
}

func (e *hostFailure) Error() string {
	return e.msg
}

// appAction is a hostAction that needs the Mac App Store.
type appAction func(ctx context.Context, apps *appstore.Manager, user string) (any, error)

// results collects per-host output so that concurrent hosts never
// interleave on stdout.
type results struct {
	mu     sync.Mutex
	byHost map[string]any
}

func (r *results) set(hostname string, v any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byHost[hostname] = v
}

// write prints one YAML document keyed by hostname.
func (r *results) write(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.byHost) == 0 {
		return nil
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r.byHost); err != nil {
		return err
	}
	return enc.Close()
}

// forEachHost runs action on every host and prints the hosts that succeeded.
// The returned error aggregates every host that failed, including hosts
// that could not be set up.
func (a *App) forEachHost(cmd *cobra.Command, action hostAction, extra ...host.HostOption) error {
	hostGroup, initErrs, err := a.initializeHosts(cmd.Context(), extra...)
	if err != nil {
		return err
	}
	return joinErrors(initErrs, a.process(cmd.Context(), cmd.Name(), hostGroup, action))
}

// joinErrors flattens errs into a new multierror, skipping nils.
func joinErrors(errs ...error) error {
	return multierror.Append(&multierror.Error{}, errs...).ErrorOrNil()
}

func (a *App) process(ctx context.Context, name string, hostGroup *hostgroup.HostGroup, action hostAction) error {
	out := &results{byHost: map[string]any{}}
	err := hostGroup.Process(ctx, func(ctx context.Context, h *host.Host) error {
		ctx, cancel := context.WithTimeout(ctx, a.opts.Timeout)
		defer cancel()

		logger.WithHost(h.Hostname).WithField("command", name).Debug("Processing host")
		v, err := action(ctx, h)
		var failure *hostFailure
		switch {
		case errors.As(err, &failure):
			out.set(h.Hostname, failure.output)
		case err == nil:
			out.set(h.Hostname, v)
		}
		return err
	}, a.opts.Concurrency)

	if werr := out.write(a.stdout); werr != nil {
		return werr
	}
	return err
}

func (a *App) withAppStore(action appAction) hostAction {
	return func(ctx context.Context, h *host.Host) (any, error) {
		apps, err := h.AppStore()
		if err != nil {
			return nil, err
		}
		return action(ctx, apps, a.opts.RunAs)
	}
}

// mutation reports the outcome of a mas call that only succeeds or fails.
type mutation struct {
	App     string `yaml:"app,omitempty"`
	Action  string `yaml:"action"`
	Success bool   `yaml:"success"`
}

func (a *App) mutate(action string, fn func(ctx context.Context, apps *appstore.Manager, t appstore.Target, user string) (bool, error)) func(name string) hostAction {
	return func(name string) hostAction {
		return a.withAppStore(func(ctx context.Context, apps *appstore.Manager, user string) (any, error) {
			ok, err := fn(ctx, apps, appstore.ParseTarget(name), user)
			if err != nil {
				return nil, err
			}
			res := mutation{App: name, Action: action, Success: ok}
			if !ok {
				return nil, &hostFailure{output: res, msg: fmt.Sprintf("mas %s %s failed", action, name)}
			}
			return res, nil
		})
	}
}
