package store

import (
	"fmt"

	goSession "github.com/MrEthical07/goSession"
)

// checkPair rejects half credential pairs at the write boundary. A session
// missing either token is not a valid session and must never be persisted.
func checkPair(cred goSession.Credential) error {
	if cred.Empty() || cred.Complete() {
		return nil
	}
	return fmt.Errorf("save: %w", goSession.ErrIncompleteCredential)
}

// persistedState is the serialized shape shared by the file backend and
// tests: the token pair plus the denormalized profile snapshot.
type persistedState struct {
	AccessToken  string                 `json:"access_token"`
	RefreshToken string                 `json:"refresh_token"`
	Profile      *goSession.UserProfile `json:"user,omitempty"`
}
