// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package async

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

// DefaultPort is the infinote port used when neither the host string nor an
// SRV record names one.
const DefaultPort = 6523

// ErrNoAddresses is returned when resolution succeeds but yields nothing.
var ErrNoAddresses = errors.New("no addresses found")

// Address is one resolved endpoint.
type Address struct {
	Host string // name that was resolved (SRV target or the original host)
	IP   net.IP
	Port int
}

// String returns "ip:port".
func (a Address) String() string {
	return net.JoinHostPort(a.IP.String(), strconv.Itoa(a.Port))
}

// Resolver is the subset of *net.Resolver used for lookups.
type Resolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
	LookupSRV(ctx context.Context, service, proto, name string) (string, []*net.SRV, error)
}

// NewResolve returns a job resolving host into addresses. host may carry an
// explicit port ("example.org:6524", "[::1]:6523"). When service is non-empty
// and no port is given, the SRV record _service._tcp.host is tried first and
// plain address lookup is the fallback. A nil resolver uses net.DefaultResolver.
func NewResolve(resolver Resolver, host, service string, done func(h *Handle, addrs []Address, err error)) *Job[[]Address] {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	return NewJob(func(ctx context.Context) ([]Address, error) {
		return resolveAddresses(ctx, resolver, host, service)
	}, done)
}

// SplitHostPort splits an optional port off hostport. A missing port yields
// DefaultPort and explicit=false.
func SplitHostPort(hostport string) (host string, port int, explicit bool, err error) {
	hostport = strings.TrimSpace(hostport)
	if hostport == "" {
		return "", 0, false, errors.New("empty host")
	}

	h, p, splitErr := net.SplitHostPort(hostport)
	if splitErr != nil {
		// No port: strip brackets from a bare IPv6 literal.
		return strings.TrimSuffix(strings.TrimPrefix(hostport, "["), "]"), DefaultPort, false, nil
	}

	n, err := strconv.Atoi(p)
	if err != nil || n <= 0 || n > 65535 {
		return "", 0, false, fmt.Errorf("invalid port %q", p)
	}
	return h, n, true, nil
}

func resolveAddresses(ctx context.Context, r Resolver, hostport, service string) ([]Address, error) {
	host, port, explicit, err := SplitHostPort(hostport)
	if err != nil {
		return nil, err
	}

	if ip := net.ParseIP(host); ip != nil {
		return []Address{{Host: host, IP: ip, Port: port}}, nil
	}

	if service != "" && !explicit {
		if addrs := lookupSRV(ctx, r, host, service); len(addrs) > 0 {
			return addrs, nil
		}
	}

	ips, err := r.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", host, err)
	}
	if len(ips) == 0 {
		return nil, fmt.Errorf("resolve %s: %w", host, ErrNoAddresses)
	}

	addrs := make([]Address, 0, len(ips))
	for _, ip := range ips {
		addrs = append(addrs, Address{Host: host, IP: ip.IP, Port: port})
	}
	return addrs, nil
}

// lookupSRV returns the addresses of every resolvable SRV target in the order
// the resolver sorted them. Lookup failures are not errors here.
func lookupSRV(ctx context.Context, r Resolver, host, service string) []Address {
	_, records, err := r.LookupSRV(ctx, service, "tcp", host)
	if err != nil {
		return nil
	}

	var addrs []Address
	for _, srv := range records {
		target := strings.TrimSuffix(srv.Target, ".")
		if target == "" {
			continue
		}
		ips, err := r.LookupIPAddr(ctx, target)
		if err != nil {
			continue
		}
		for _, ip := range ips {
			addrs = append(addrs, Address{Host: target, IP: ip.IP, Port: int(srv.Port)})
		}
	}
	return addrs
}
