package main

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"github.com/steelcutops/steelcut-mas/logger"
	"github.com/steelcutops/steelcut-mas/steelcut/commandmanager"
	"github.com/steelcutops/steelcut-mas/steelcut/host"
	"github.com/steelcutops/steelcut-mas/steelcut/hostgroup"
	"gopkg.in/ini.v1"
)

var errNoHosts = errors.New("no usable hosts")

// readHostsFromFile reads an inventory where every section is a group and
// every value a hostname.
func readHostsFromFile(filePath string) (map[string][]string, error) {
	cfg, err := ini.Load(filePath)
	if err != nil {
		return nil, err
	}

	hosts := make(map[string][]string)

	for _, section := range cfg.Sections() {
		name := section.Name()
		for _, key := range section.Keys() {
			hosts[name] = append(hosts[name], key.String())
		}
	}

	return hosts, nil
}

func (a *App) buildHostOptions() ([]host.HostOption, error) {
	options := []host.HostOption{host.WithSSHClient(commandmanager.RealSSHClient{})}

	if a.opts.Username != "" {
		options = append(options, host.WithUser(a.opts.Username))
	}
	if a.opts.RunAs != "" {
		options = append(options, host.WithAppUser(a.opts.RunAs))
	}
	if a.opts.InstallMas {
		options = append(options, host.WithInstallMas(true))
	}

	prompts := []struct {
		enabled bool
		prompt  string
		option  func(string) host.HostOption
	}{
		{a.opts.PasswordPrompt, "Enter the password: ", host.WithPassword},
		{a.opts.KeyPassPrompt, "Enter the key passphrase: ", host.WithKeyPassphrase},
		{a.opts.SudoPasswordPrompt, "Enter the sudo password: ", host.WithSudoPassword},
	}
	for _, p := range prompts {
		if !p.enabled {
			continue
		}
		secret, err := a.readSecret(p.prompt)
		if err != nil {
			return nil, fmt.Errorf("reading secret: %w", err)
		}
		if secret != "" {
			options = append(options, p.option(secret))
		}
	}

	return options, nil
}

// initializeHosts connects to every host given on the command line or in
// the inventory. Hosts that cannot be set up are collected in initErrs and
// left out of the group; err is set when no host is usable at all.
func (a *App) initializeHosts(ctx context.Context, extra ...host.HostOption) (hostGroup *hostgroup.HostGroup, initErrs *multierror.Error, err error) {
	options, err := a.buildHostOptions()
	if err != nil {
		return nil, nil, err
	}
	options = append(options, extra...)

	hostnames := append([]string(nil), a.opts.Hostnames...)
	if a.opts.IniFilePath != "" {
		hostsMap, err := readHostsFromFile(a.opts.IniFilePath)
		if err != nil {
			return nil, nil, fmt.Errorf("reading inventory: %w", err)
		}
		groups := make([]string, 0, len(hostsMap))
		for group := range hostsMap {
			groups = append(groups, group)
		}
		sort.Strings(groups)
		for _, group := range groups {
			logrus.WithField("group", group).Debug("Adding hosts from group")
			hostnames = append(hostnames, hostsMap[group]...)
		}
	}
	if len(hostnames) == 0 {
		hostnames = append(hostnames, "localhost")
	}

	hostGroup = hostgroup.NewHostGroup()
	for _, hostname := range hostnames {
		log := logger.WithHost(hostname)
		log.Debug("Adding host")
		server, err := a.newHost(ctx, hostname, options...)
		if err != nil {
			log.WithError(err).Error("Failed to create new host")
			initErrs = multierror.Append(initErrs, fmt.Errorf("host %s: %w", hostname, err))
			continue
		}
		hostGroup.AddHost(server)
	}

	if len(hostGroup.Hosts) == 0 {
		return nil, nil, multierror.Append(errNoHosts, initErrs.WrappedErrors()...)
	}
	return hostGroup, initErrs, nil
}
