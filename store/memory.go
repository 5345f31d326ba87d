package store

import (
	"sync"

	goSession "github.com/MrEthical07/goSession"
)

// Memory is a process-local CredentialStore. State does not survive restart;
// it is intended for tests and short-lived tools.
type Memory struct {
	mu      sync.RWMutex
	cred    goSession.Credential
	profile *goSession.UserProfile
}

// NewMemory describes the newmemory operation and its observable behavior.
//
// NewMemory does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewMemory() *Memory {
	return &Memory{}
}

// Save describes the save operation and its observable behavior.
//
// Save may return an error when input validation, dependency calls, or security checks fail.
func (m *Memory) Save(cred goSession.Credential, profile *goSession.UserProfile) error {
	if err := checkPair(cred); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.cred = cred
	m.profile = cloneProfile(profile)
	return nil
}

// Load describes the load operation and its observable behavior.
//
// Load may return an error when input validation, dependency calls, or security checks fail.
func (m *Memory) Load() (goSession.Credential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cred, nil
}

// LoadProfile describes the loadprofile operation and its observable behavior.
//
// LoadProfile may return an error when input validation, dependency calls, or security checks fail.
func (m *Memory) LoadProfile() (*goSession.UserProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneProfile(m.profile), nil
}

// Clear describes the clear operation and its observable behavior.
//
// Clear may return an error when input validation, dependency calls, or security checks fail.
func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cred = goSession.Credential{}
	m.profile = nil
	return nil
}

func cloneProfile(p *goSession.UserProfile) *goSession.UserProfile {
	if p == nil {
		return nil
	}

	clone := *p
	if p.Permissions != nil {
		clone.Permissions = append([]string(nil), p.Permissions...)
	}
	return &clone
}
