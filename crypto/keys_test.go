package crypto

import (
	"bytes"
	"strings"
	"testing"
)

func TestAddressEncodeDecodeRoundTrip(t *testing.T) {
	raw := make([]byte, 20)
	for i := range raw {
		raw[i] = byte(i)
	}
	addr, err := NewAddress(VaultPrefix, raw)
	if err != nil {
		t.Fatalf("new address: %v", err)
	}

	encoded := addr.String()
	if !strings.HasPrefix(encoded, string(VaultPrefix)+"1") {
		t.Fatalf("encoded address %q missing prefix", encoded)
	}

	decoded, err := DecodeAddress(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Prefix() != VaultPrefix {
		t.Fatalf("prefix %q, want %q", decoded.Prefix(), VaultPrefix)
	}
	if !bytes.Equal(decoded.Bytes(), raw) {
		t.Fatalf("payload %x, want %x", decoded.Bytes(), raw)
	}
}

func TestNewAddressRejectsWrongLength(t *testing.T) {
	if _, err := NewAddress(VaultPrefix, make([]byte, 19)); err == nil {
		t.Fatal("expected error for 19-byte payload")
	}
	if _, err := NewAddress(VaultPrefix, make([]byte, 21)); err == nil {
		t.Fatal("expected error for 21-byte payload")
	}
}

func TestDecodeAddressRejectsGarbage(t *testing.T) {
	if _, err := DecodeAddress("svt1notvalidbech32!!"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestPrivateKeyRoundTrip(t *testing.T) {
	key, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	restored, err := PrivateKeyFromBytes(key.Bytes())
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if key.PubKey().Address().String() != restored.PubKey().Address().String() {
		t.Fatal("restored key derives a different address")
	}
}

func TestArrayCopiesPayload(t *testing.T) {
	raw := make([]byte, 20)
	raw[19] = 0x7F
	addr := MustNewAddress(VaultPrefix, raw)

	arr := addr.Array()
	if arr[19] != 0x7F {
		t.Fatalf("array payload mismatch: %x", arr)
	}
	arr[19] = 0
	if addr.Array()[19] != 0x7F {
		t.Fatal("Array aliased the address payload")
	}
}
