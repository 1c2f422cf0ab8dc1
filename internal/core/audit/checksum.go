// Package audit contains the pure checksum logic behind the append-only
// audit log. Each row's checksum is computed independently of every other
// row (not chained to the previous row's checksum) — a tampered row is
// detected by recomputing its own hash, not by breaking a chain.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
)

// delimiter separates fields inside the hashed string. It must never appear
// unescaped inside a field for the checksum to stay collision-resistant in
// practice; role/action/target/details are all operator-controlled short
// strings so this is an accepted, documented limitation rather than an
// escaping scheme.
const delimiter = "|"

// Checksum computes H(timestamp|role|action|target|details) where absent
// fields are the empty string. timestamp must already be formatted with
// clock.TimestampFormat — the checksum hashes the exact string, not the
// underlying time.Time, so a format change invalidates every prior row.
func Checksum(timestamp, role, action, target, details string) string {
	h := sha256.New()
	h.Write([]byte(timestamp))
	h.Write([]byte(delimiter))
	h.Write([]byte(role))
	h.Write([]byte(delimiter))
	h.Write([]byte(action))
	h.Write([]byte(delimiter))
	h.Write([]byte(target))
	h.Write([]byte(delimiter))
	h.Write([]byte(details))
	return hex.EncodeToString(h.Sum(nil))
}

// Verify reports whether stored matches the recomputation over the given
// fields.
func Verify(timestamp, role, action, target, details, stored string) bool {
	return Checksum(timestamp, role, action, target, details) == stored
}
