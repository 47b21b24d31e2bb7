package core

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/illarion/seedlock/internal/keystore"
)

func newTestSeedLock(t *testing.T) *SeedLock {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultRecordFile)
	return New(path, keystore.NewCodec(keystore.WithIterations(16)))
}

func TestSealAndOpen(t *testing.T) {
	s := newTestSeedLock(t)
	seed := []byte{0xde, 0xad, 0xbe, 0xef}

	if s.Exists() {
		t.Fatal("Record file should not exist yet")
	}

	rec, err := s.Seal(seed, []byte("test123"), "wallet-1", false)
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	if !s.Exists() {
		t.Fatal("Record file should exist after Seal")
	}

	info, err := os.Stat(s.Path())
	if err != nil {
		t.Fatalf("Failed to stat record: %v", err)
	}
	if perm := info.Mode().Perm(); perm != FilePermSecure {
		t.Errorf("Expected permissions %o, got %o", FilePermSecure, perm)
	}

	got, err := s.Open([]byte("test123"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if !bytes.Equal(got, seed) {
		t.Errorf("Seed mismatch: got %x, want %x", got, seed)
	}

	id, err := s.RecordID()
	if err != nil {
		t.Fatalf("RecordID failed: %v", err)
	}
	if id != rec.ID {
		t.Errorf("Expected id %s, got %s", rec.ID, id)
	}
}

func TestSealRefusesOverwrite(t *testing.T) {
	s := newTestSeedLock(t)

	if _, err := s.Seal([]byte("one"), []byte("p"), "", false); err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	if _, err := s.Seal([]byte("two"), []byte("p"), "", false); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("Expected ErrAlreadyExists, got %v", err)
	}

	if _, err := s.Seal([]byte("two"), []byte("p"), "", true); err != nil {
		t.Fatalf("Seal with overwrite failed: %v", err)
	}
	got, err := s.Open([]byte("p"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if string(got) != "two" {
		t.Errorf("Expected overwritten seed, got %q", got)
	}
}

func TestOpenWrongPassphrase(t *testing.T) {
	s := newTestSeedLock(t)
	if _, err := s.Seal([]byte("seed"), []byte("right"), "", false); err != nil {
		t.Fatalf("Seal failed: %v", err)
	}

	if _, err := s.Open([]byte("wrong")); !errors.Is(err, keystore.ErrDecryptionFailed) {
		t.Errorf("Expected ErrDecryptionFailed, got %v", err)
	}
	if err := s.VerifyPassphrase([]byte("wrong")); !errors.Is(err, keystore.ErrDecryptionFailed) {
		t.Errorf("Expected ErrDecryptionFailed, got %v", err)
	}
	if err := s.VerifyPassphrase([]byte("right")); err != nil {
		t.Errorf("VerifyPassphrase failed: %v", err)
	}
}

func TestLoadMissingAndCorrupt(t *testing.T) {
	s := newTestSeedLock(t)

	if _, err := s.Load(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	if err := os.WriteFile(s.Path(), []byte(`{"version": 3, "id": "x"}`), FilePermSecure); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if _, err := s.Open([]byte("p")); !errors.Is(err, keystore.ErrMalformedRecord) {
		t.Errorf("Expected ErrMalformedRecord, got %v", err)
	}
}

func TestChangePassphrase(t *testing.T) {
	s := newTestSeedLock(t)
	seed := []byte("0123456789abcdef0123456789abcdef")

	orig, err := s.Seal(seed, []byte("old"), "meta", false)
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}

	if _, err := s.ChangePassphrase([]byte("bad"), []byte("new")); !errors.Is(err, keystore.ErrDecryptionFailed) {
		t.Fatalf("Expected ErrDecryptionFailed for wrong old passphrase, got %v", err)
	}

	updated, err := s.ChangePassphrase([]byte("old"), []byte("new"))
	if err != nil {
		t.Fatalf("ChangePassphrase failed: %v", err)
	}
	if updated.ID != orig.ID || updated.Meta != orig.Meta {
		t.Error("Record id and meta should survive a passphrase change")
	}

	if _, err := s.Open([]byte("old")); !errors.Is(err, keystore.ErrDecryptionFailed) {
		t.Errorf("Old passphrase should no longer work, got %v", err)
	}
	got, err := s.Open([]byte("new"))
	if err != nil {
		t.Fatalf("Open with new passphrase failed: %v", err)
	}
	if !bytes.Equal(got, seed) {
		t.Errorf("Seed mismatch after passphrase change")
	}
}

func TestGetPasswordFromEnv(t *testing.T) {
	t.Setenv(PassphraseEnvVar, "")
	if p := GetPasswordFromEnv(); p != nil {
		t.Errorf("Expected nil without env var, got %q", p)
	}

	t.Setenv(PassphraseEnvVar, "from-env")
	if p := GetPasswordFromEnv(); string(p) != "from-env" {
		t.Errorf("Expected from-env, got %q", p)
	}
}
