package store

import (
	"os"
	"path/filepath"
	"testing"

	goSession "github.com/MrEthical07/goSession"
)

func TestNewFileRequiresPath(t *testing.T) {
	if _, err := NewFile("   "); err == nil {
		t.Fatal("expected error for blank path")
	}
}

func TestFileHalfPairOnDiskLoadsAsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	if err := os.WriteFile(path, []byte(`{"access_token":"only-access"}`), 0o600); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	st, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile failed: %v", err)
	}

	cred, err := st.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !cred.Empty() {
		t.Fatalf("half pair must load as absent, got %+v", cred)
	}
}

func TestFileCorruptContentSurfacesError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	st, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile failed: %v", err)
	}

	if _, err := st.Load(); err == nil {
		t.Fatal("expected decode error for corrupt file")
	}
}

func TestFileClearRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	st, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile failed: %v", err)
	}

	cred := goSession.Credential{AccessToken: "a", RefreshToken: "r"}
	if err := st.Save(cred, nil); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := st.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected credential file removed, stat: %v", err)
	}
}

func TestFileSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	st, err := NewFile(filepath.Join(dir, "credentials.json"))
	if err != nil {
		t.Fatalf("NewFile failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		cred := goSession.Credential{AccessToken: "a", RefreshToken: "r"}
		if err := st.Save(cred, sampleProfile()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the credential file, got %d entries", len(entries))
	}
}
