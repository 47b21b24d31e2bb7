package keystore

import (
	"bytes"
	"errors"
	"testing"

	"pgregory.net/rapid"
)

func drawSecret(t *rapid.T) []byte {
	return rapid.SliceOfN(rapid.Byte(), 0, 96).Draw(t, "secret")
}

func drawPassphrase(t *rapid.T, label string) []byte {
	return []byte(rapid.String().Draw(t, label))
}

func TestPropertyRoundTrip(t *testing.T) {
	codec := testCodec()

	rapid.Check(t, func(t *rapid.T) {
		secret := drawSecret(t)
		passphrase := drawPassphrase(t, "passphrase")
		meta := rapid.String().Draw(t, "meta")

		rec, err := codec.Encode(secret, passphrase, meta)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}

		data, err := rec.Marshal()
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		parsed, err := ParseRecord(data)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}

		got, err := codec.Decode(parsed, passphrase)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !bytes.Equal(got, secret) {
			t.Fatalf("round trip mismatch: got %x, want %x", got, secret)
		}
		if parsed.Meta != meta {
			t.Fatalf("meta mismatch: got %q, want %q", parsed.Meta, meta)
		}
	})
}

func TestPropertyWrongPassphrase(t *testing.T) {
	codec := testCodec()

	rapid.Check(t, func(t *rapid.T) {
		secret := drawSecret(t)
		p1 := drawPassphrase(t, "p1")
		p2 := drawPassphrase(t, "p2")
		if bytes.Equal(p1, p2) {
			p2 = append(p2, 'x')
		}

		rec, err := codec.Encode(secret, p1, "")
		if err != nil {
			t.Fatalf("encode: %v", err)
		}

		if _, err := codec.Decode(rec, p2); !errors.Is(err, ErrDecryptionFailed) {
			t.Fatalf("expected ErrDecryptionFailed, got %v", err)
		}
	})
}

func TestPropertyTamperDetection(t *testing.T) {
	codec := testCodec()

	rapid.Check(t, func(t *rapid.T) {
		secret := rapid.SliceOfN(rapid.Byte(), 1, 64).Draw(t, "secret")
		passphrase := drawPassphrase(t, "passphrase")

		rec, err := codec.Encode(secret, passphrase, "")
		if err != nil {
			t.Fatalf("encode: %v", err)
		}

		field := rapid.SampledFrom([]string{"ciphertext", "mac", "salt"}).Draw(t, "field")
		var target []byte
		switch field {
		case "ciphertext":
			target = rec.Crypto.CipherText
		case "mac":
			target = rec.Crypto.MAC
		case "salt":
			target = rec.Crypto.KDFParams.Salt
		}
		bit := rapid.IntRange(0, len(target)*8-1).Draw(t, "bit")
		target[bit/8] ^= 1 << (bit % 8)

		if _, err := codec.Decode(rec, passphrase); !errors.Is(err, ErrDecryptionFailed) {
			t.Fatalf("flipping bit %d of %s: expected ErrDecryptionFailed, got %v",
				bit, field, err)
		}
	})
}

func TestPropertyFreshness(t *testing.T) {
	codec := testCodec()

	rapid.Check(t, func(t *rapid.T) {
		// Long enough that two independent keystreams cannot collide.
		secret := rapid.SliceOfN(rapid.Byte(), 16, 64).Draw(t, "secret")
		passphrase := drawPassphrase(t, "passphrase")

		rec1, err := codec.Encode(secret, passphrase, "")
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		rec2, err := codec.Encode(secret, passphrase, "")
		if err != nil {
			t.Fatalf("encode: %v", err)
		}

		if bytes.Equal(rec1.Crypto.KDFParams.Salt, rec2.Crypto.KDFParams.Salt) {
			t.Fatal("salt reused")
		}
		if bytes.Equal(rec1.Crypto.CipherParams.IV, rec2.Crypto.CipherParams.IV) {
			t.Fatal("iv reused")
		}
		if bytes.Equal(rec1.Crypto.CipherText, rec2.Crypto.CipherText) {
			t.Fatal("ciphertext repeated")
		}
	})
}

func TestPropertyDecodeIdempotent(t *testing.T) {
	codec := testCodec()

	rapid.Check(t, func(t *rapid.T) {
		secret := drawSecret(t)
		passphrase := drawPassphrase(t, "passphrase")

		rec, err := codec.Encode(secret, passphrase, "")
		if err != nil {
			t.Fatalf("encode: %v", err)
		}

		first, err := codec.Decode(rec, passphrase)
		if err != nil {
			t.Fatalf("first decode: %v", err)
		}
		second, err := codec.Decode(rec, passphrase)
		if err != nil {
			t.Fatalf("second decode: %v", err)
		}
		if !bytes.Equal(first, second) {
			t.Fatalf("decode not idempotent: %x != %x", first, second)
		}
	})
}
