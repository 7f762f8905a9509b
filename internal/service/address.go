package service

import (
	"crypto/ed25519"
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // ledger address format requires it
)

// ledgerAlphabet is the base58 dictionary the ledger uses for classic
// addresses; the account-ID version byte makes every address start with 'r'.
const ledgerAlphabet = "rpshnaf39wBUDNEGHJKLM4PQRST7VWXYZ2bcdeCg65jkm8oFqi1tuvAxyz"

const accountIDVersion = 0x00

// deriveAddress maps a credential deterministically to its ledger address:
// the credential seeds an ed25519 key, whose public half is hashed
// (sha256 then ripemd160) into the account ID, then base58check-encoded.
func deriveAddress(credential string) string {
	seed := sha256.Sum256([]byte(credential))
	priv := ed25519.NewKeyFromSeed(seed[:])
	pub := priv.Public().(ed25519.PublicKey)

	pubHash := sha256.Sum256(pub)
	r := ripemd160.New()
	r.Write(pubHash[:])
	accountID := r.Sum(nil)

	payload := append([]byte{accountIDVersion}, accountID...)
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	full := append(payload, second[:4]...)

	return encodeBase58(full)
}

// encodeBase58 encodes with the ledger alphabet. Hand-rolled: the checksum
// variant with this dictionary is not covered by any library in use here.
func encodeBase58(b []byte) string {
	zeros := 0
	for zeros < len(b) && b[zeros] == 0 {
		zeros++
	}

	var digits []byte // little-endian base-58
	for _, c := range b {
		carry := int(c)
		for i := range digits {
			carry += int(digits[i]) << 8
			digits[i] = byte(carry % 58)
			carry /= 58
		}
		for carry > 0 {
			digits = append(digits, byte(carry%58))
			carry /= 58
		}
	}

	out := make([]byte, 0, zeros+len(digits))
	for i := 0; i < zeros; i++ {
		out = append(out, ledgerAlphabet[0])
	}
	for i := len(digits) - 1; i >= 0; i-- {
		out = append(out, ledgerAlphabet[digits[i]])
	}
	return string(out)
}
