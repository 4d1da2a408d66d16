// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package async

import (
	"context"
	"crypto/rsa"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runJob[T any](t *testing.T, run func(ctx context.Context) (T, error)) (value T, err error, calls int) {
	t.Helper()
	loop := NewLoop()
	var started *Handle
	started = Start(loop, NewJob(run, func(h *Handle, v T, e error) {
		assert.Same(t, started, h, "callback receives the caller's handle")
		value, err = v, e
		calls++
	}))
	require.NoError(t, loop.Next(testContext(t)))
	return value, err, calls
}

func TestJob_Success(t *testing.T) {
	v, err, calls := runJob(t, func(ctx context.Context) (int, error) { return 42, nil })
	assert.Equal(t, 1, calls)
	assert.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestJob_ErrorZeroesValue(t *testing.T) {
	boom := errors.New("boom")
	v, err, calls := runJob(t, func(ctx context.Context) (string, error) { return "partial", boom })
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, v, "value and error are never both reported")
}

func TestJob_PanicBecomesError(t *testing.T) {
	v, err, calls := runJob(t, func(ctx context.Context) (*int, error) { panic("kaput") })
	assert.Equal(t, 1, calls)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaput")
	assert.Nil(t, v)
}

func TestNewJob_NilRunPanics(t *testing.T) {
	assert.Panics(t, func() { NewJob[int](nil, nil) })
}

// =============================================================================
// KEY GENERATION
// =============================================================================

func TestKeyGeneration_TooSmall(t *testing.T) {
	loop := NewLoop()
	var gotErr error
	var gotKey *rsa.PrivateKey
	Start(loop, NewKeyGeneration(512, func(h *Handle, key *rsa.PrivateKey, err error) {
		gotKey, gotErr = key, err
	}))
	require.NoError(t, loop.Next(testContext(t)))

	assert.ErrorIs(t, gotErr, ErrKeyTooSmall)
	assert.Nil(t, gotKey)
}

func TestKeyGeneration_Generates(t *testing.T) {
	loop := NewLoop()
	var gotKey *rsa.PrivateKey
	var gotErr error
	Start(loop, NewKeyGeneration(MinKeyBits, func(h *Handle, key *rsa.PrivateKey, err error) {
		gotKey, gotErr = key, err
	}))
	require.NoError(t, loop.Next(testContext(t)))

	require.NoError(t, gotErr)
	require.NotNil(t, gotKey)
	assert.Equal(t, MinKeyBits, gotKey.N.BitLen())
}

// =============================================================================
// RESOLUTION
// =============================================================================

type fakeResolver struct {
	hosts  map[string][]net.IPAddr
	srv    map[string][]*net.SRV
	lookup []string
}

func (r *fakeResolver) LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error) {
	r.lookup = append(r.lookup, host)
	if ips, ok := r.hosts[host]; ok {
		return ips, nil
	}
	return nil, &net.DNSError{Err: "no such host", Name: host, IsNotFound: true}
}

func (r *fakeResolver) LookupSRV(ctx context.Context, service, proto, name string) (string, []*net.SRV, error) {
	key := "_" + service + "._" + proto + "." + name
	if recs, ok := r.srv[key]; ok {
		return key, recs, nil
	}
	return "", nil, &net.DNSError{Err: "no such host", Name: key, IsNotFound: true}
}

func resolveWith(t *testing.T, r Resolver, host, service string) ([]Address, error) {
	t.Helper()
	loop := NewLoop()
	var addrs []Address
	var err error
	Start(loop, NewResolve(r, host, service, func(h *Handle, a []Address, e error) {
		addrs, err = a, e
	}))
	require.NoError(t, loop.Next(testContext(t)))
	return addrs, err
}

func TestResolve_PlainHostDefaultPort(t *testing.T) {
	r := &fakeResolver{hosts: map[string][]net.IPAddr{
		"gobby.example": {{IP: net.ParseIP("192.0.2.10")}, {IP: net.ParseIP("2001:db8::10")}},
	}}

	addrs, err := resolveWith(t, r, "gobby.example", "")
	require.NoError(t, err)
	require.Len(t, addrs, 2)
	assert.Equal(t, "192.0.2.10:6523", addrs[0].String())
	assert.Equal(t, "[2001:db8::10]:6523", addrs[1].String())
}

func TestResolve_SRVPreferred(t *testing.T) {
	r := &fakeResolver{
		hosts: map[string][]net.IPAddr{
			"gobby.example":     {{IP: net.ParseIP("192.0.2.10")}},
			"srv1.gobby.example": {{IP: net.ParseIP("192.0.2.20")}},
		},
		srv: map[string][]*net.SRV{
			"_infinote._tcp.gobby.example": {{Target: "srv1.gobby.example.", Port: 7000}},
		},
	}

	addrs, err := resolveWith(t, r, "gobby.example", "infinote")
	require.NoError(t, err)
	require.Len(t, addrs, 1)
	assert.Equal(t, "srv1.gobby.example", addrs[0].Host)
	assert.Equal(t, 7000, addrs[0].Port)
}

func TestResolve_SRVMissingFallsBack(t *testing.T) {
	r := &fakeResolver{hosts: map[string][]net.IPAddr{
		"gobby.example": {{IP: net.ParseIP("192.0.2.10")}},
	}}

	addrs, err := resolveWith(t, r, "gobby.example", "infinote")
	require.NoError(t, err)
	require.Len(t, addrs, 1)
	assert.Equal(t, DefaultPort, addrs[0].Port)
}

func TestResolve_ExplicitPortSkipsSRV(t *testing.T) {
	r := &fakeResolver{
		hosts: map[string][]net.IPAddr{"gobby.example": {{IP: net.ParseIP("192.0.2.10")}}},
		srv: map[string][]*net.SRV{
			"_infinote._tcp.gobby.example": {{Target: "other.example.", Port: 7000}},
		},
	}

	addrs, err := resolveWith(t, r, "gobby.example:6600", "infinote")
	require.NoError(t, err)
	require.Len(t, addrs, 1)
	assert.Equal(t, 6600, addrs[0].Port)
	assert.Equal(t, []string{"gobby.example"}, r.lookup)
}

func TestResolve_IPLiteralNoLookup(t *testing.T) {
	r := &fakeResolver{}
	addrs, err := resolveWith(t, r, "[::1]:7000", "")
	require.NoError(t, err)
	require.Len(t, addrs, 1)
	assert.Equal(t, "[::1]:7000", addrs[0].String())
	assert.Empty(t, r.lookup)
}

func TestResolve_Failure(t *testing.T) {
	addrs, err := resolveWith(t, &fakeResolver{}, "missing.example", "")
	require.Error(t, err)
	assert.Nil(t, addrs)
	var dnsErr *net.DNSError
	assert.ErrorAs(t, err, &dnsErr)
}

func TestSplitHostPort(t *testing.T) {
	tests := []struct {
		in       string
		host     string
		port     int
		explicit bool
		wantErr  bool
	}{
		{"example.org", "example.org", DefaultPort, false, false},
		{"example.org:6524", "example.org", 6524, true, false},
		{"[2001:db8::1]:80", "2001:db8::1", 80, true, false},
		{"[2001:db8::1]", "2001:db8::1", DefaultPort, false, false},
		{"example.org:0", "", 0, false, true},
		{"example.org:http", "", 0, false, true},
		{"  ", "", 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			host, port, explicit, err := SplitHostPort(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.host, host)
			assert.Equal(t, tt.port, port)
			assert.Equal(t, tt.explicit, explicit)
		})
	}
}
