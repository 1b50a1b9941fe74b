package security

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"
)

const serviceTokenContext = "iconbridge-service"

// ResolveServiceToken returns the IPC token. An explicit token wins;
// otherwise one is derived from the shared secret.
func ResolveServiceToken(explicit, secret string) string {
	if token := strings.TrimSpace(explicit); token != "" {
		return token
	}
	return DeriveServiceToken(secret)
}

// DeriveServiceToken turns secret into a deterministic token using keyed
// BLAKE2b. It returns "" for an empty secret.
func DeriveServiceToken(secret string) string {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return ""
	}
	h, err := blake2b.New256([]byte(secret))
	if err != nil {
		// Keys longer than 64 bytes are hashed down first.
		sum := blake2b.Sum256([]byte(secret))
		h, _ = blake2b.New256(sum[:])
	}
	h.Write([]byte(serviceTokenContext))
	return hex.EncodeToString(h.Sum(nil))
}
