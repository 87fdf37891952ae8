package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStore keeps users and distributions in memory. Distributions are
// stored encoded so reads go through the same codec as Postgres.
type memStore struct {
	mu            sync.Mutex
	users         []User
	distributions []storedDistribution
	err           error
}

type storedDistribution struct {
	d    Distribution
	blob string
}

func (m *memStore) CreateUser(_ context.Context, username, passwordHash string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return User{}, m.err
	}
	u := User{Id: len(m.users) + 1, Username: username, PasswordHash: passwordHash}
	m.users = append(m.users, u)
	return u, nil
}

func (m *memStore) GetUserByUsername(_ context.Context, username string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return User{}, m.err
	}
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (m *memStore) CreateDistribution(_ context.Context, d Distribution) (Distribution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return Distribution{}, m.err
	}
	blob, err := encodeShares(d.Distribution)
	if err != nil {
		return Distribution{}, err
	}
	d.Id = len(m.distributions) + 1
	m.distributions = append(m.distributions, storedDistribution{d: d, blob: blob})
	return d, nil
}

func (m *memStore) ListDistributions(_ context.Context, userID int) ([]Distribution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []Distribution{}
	for _, s := range m.distributions {
		if s.d.UserId != userID {
			continue
		}
		d := s.d
		shares, err := decodeShares(s.blob)
		if err != nil {
			return nil, err
		}
		d.Distribution = shares
		out = append(out, d)
	}
	return out, nil
}

type fakeMailer struct {
	mu     sync.Mutex
	sent   []Email
	failTo map[string]bool
}

var errSMTPDown = errors.New("smtp: connection refused")

func (f *fakeMailer) Send(_ context.Context, email Email) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failTo[email.To] {
		return errSMTPDown
	}
	f.sent = append(f.sent, email)
	return nil
}

type fakePublisher struct {
	events []DistributionEvent
	err    error
}

func (f *fakePublisher) Publish(event DistributionEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}
