package core

import (
	"errors"
	"fmt"
	"os"

	"github.com/illarion/seedlock/internal/crypto"
	"github.com/illarion/seedlock/internal/keystore"
)

const (
	DefaultRecordFile = "seed.json"
	FilePermSecure    = 0600 // File: owner rw only
)

var (
	ErrNotFound      = errors.New("record file not found")
	ErrAlreadyExists = errors.New("record file already exists")
)

// SeedLock manages one record file
type SeedLock struct {
	path  string
	codec *keystore.Codec
}

// New creates a SeedLock for the record file at path
func New(path string, codec *keystore.Codec) *SeedLock {
	if codec == nil {
		codec = keystore.NewCodec()
	}
	return &SeedLock{
		path:  path,
		codec: codec,
	}
}

// Path returns the record file path
func (s *SeedLock) Path() string {
	return s.path
}

// Exists reports whether the record file is present
func (s *SeedLock) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads and validates the record file. No passphrase is needed.
func (s *SeedLock) Load() (*keystore.Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.path)
		}
		return nil, fmt.Errorf("failed to read record: %w", err)
	}

	rec, err := keystore.ParseRecord(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}

	return rec, nil
}

// RecordID returns the id of the stored record
func (s *SeedLock) RecordID() (string, error) {
	rec, err := s.Load()
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

// Seal encrypts secret under passphrase and writes the record file.
// An existing file is only replaced when overwrite is set.
func (s *SeedLock) Seal(secret, passphrase []byte, meta string, overwrite bool) (*keystore.Record, error) {
	if !overwrite && s.Exists() {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, s.path)
	}

	rec, err := s.codec.Encode(secret, passphrase, meta)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}

	if err := s.write(rec, overwrite); err != nil {
		return nil, err
	}

	log.Infof("Sealed record %s to %s", rec.ID, s.path)

	return rec, nil
}

// Open reads the record file and decrypts the seed. The caller owns the
// returned slice and should clear it after use.
func (s *SeedLock) Open(passphrase []byte) ([]byte, error) {
	rec, err := s.Load()
	if err != nil {
		return nil, err
	}

	secret, err := s.codec.Decode(rec, passphrase)
	if err != nil {
		return nil, err
	}

	log.Debugf("Opened record %s from %s", rec.ID, s.path)

	return secret, nil
}

// VerifyPassphrase checks that passphrase opens the record
func (s *SeedLock) VerifyPassphrase(passphrase []byte) error {
	secret, err := s.Open(passphrase)
	if err != nil {
		return err
	}
	crypto.ClearBytes(secret)
	return nil
}

// ChangePassphrase re-encrypts the seed under newPassphrase and rewrites
// the record file. The record id and metadata are kept.
func (s *SeedLock) ChangePassphrase(oldPassphrase, newPassphrase []byte) (*keystore.Record, error) {
	rec, err := s.Load()
	if err != nil {
		return nil, err
	}

	updated, err := s.codec.Reencode(rec, oldPassphrase, newPassphrase)
	if err != nil {
		return nil, err
	}

	if err := s.write(updated, true); err != nil {
		return nil, err
	}

	log.Infof("Changed passphrase of record %s", updated.ID)

	return updated, nil
}

func (s *SeedLock) write(rec *keystore.Record, overwrite bool) error {
	data, err := rec.Marshal()
	if err != nil {
		return err
	}
	data = append(data, '\n')

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}

	f, err := os.OpenFile(s.path, flags, FilePermSecure)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, s.path)
		}
		return fmt.Errorf("failed to create record file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write record file: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close record file: %w", err)
	}

	return nil
}
