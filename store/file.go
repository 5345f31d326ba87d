package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	goSession "github.com/MrEthical07/goSession"
)

// File persists the credential pair and profile snapshot as a single JSON
// document. Writes go through a temp file plus rename so a reader never
// observes a partially-written or partially-cleared state.
type File struct {
	path string

	mu sync.Mutex
}

// NewFile describes the newfile operation and its observable behavior.
//
// NewFile may return an error when input validation, dependency calls, or security checks fail.
func NewFile(path string) (*File, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("credential file path is required")
	}
	return &File{path: path}, nil
}

// Save describes the save operation and its observable behavior.
//
// Save may return an error when input validation, dependency calls, or security checks fail.
func (f *File) Save(cred goSession.Credential, profile *goSession.UserProfile) error {
	if err := checkPair(cred); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	state := persistedState{
		AccessToken:  cred.AccessToken,
		RefreshToken: cred.RefreshToken,
		Profile:      profile,
	}

	encoded, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode credential file: %w", err)
	}
	return f.writeLocked(encoded)
}

// Load describes the load operation and its observable behavior.
//
// Load may return an error when input validation, dependency calls, or security checks fail.
func (f *File) Load() (goSession.Credential, error) {
	state, err := f.read()
	if err != nil {
		return goSession.Credential{}, err
	}

	cred := goSession.Credential{
		AccessToken:  state.AccessToken,
		RefreshToken: state.RefreshToken,
	}
	if !cred.Complete() {
		// a half pair on disk is not a session
		return goSession.Credential{}, nil
	}
	return cred, nil
}

// LoadProfile describes the loadprofile operation and its observable behavior.
//
// LoadProfile may return an error when input validation, dependency calls, or security checks fail.
func (f *File) LoadProfile() (*goSession.UserProfile, error) {
	state, err := f.read()
	if err != nil {
		return nil, err
	}
	return state.Profile, nil
}

// Clear describes the clear operation and its observable behavior.
//
// Clear may return an error when input validation, dependency calls, or security checks fail.
func (f *File) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove credential file: %w", err)
	}
	return nil
}

func (f *File) read() (persistedState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var state persistedState

	encoded, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return state, nil
		}
		return state, fmt.Errorf("read credential file: %w", err)
	}
	if len(encoded) == 0 {
		return state, nil
	}

	if err := json.Unmarshal(encoded, &state); err != nil {
		return persistedState{}, fmt.Errorf("decode credential file: %w", err)
	}
	return state, nil
}

func (f *File) writeLocked(encoded []byte) error {
	dir := filepath.Dir(f.path)

	tmp, err := os.CreateTemp(dir, ".credentials-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp credential file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(encoded); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp credential file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp credential file: %w", err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace credential file: %w", err)
	}
	return nil
}
