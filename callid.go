package toolfix

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// IDGenerator returns a fresh tool call identifier. It must be safe for concurrent use.
type IDGenerator func() string

// NewCallID returns "call" followed by 12 random hex digits. IDs are correlation tokens, so
// uniqueness is best-effort.
func NewCallID() string {
	u := uuid.New()
	return "call" + hex.EncodeToString(u[:6])
}

// FixCallID validates a tool call ID: an empty ID is replaced with a generated one, leading
// characters that are not ASCII letters or digits are stripped. repaired is false when id was valid.
func FixCallID(id string) (fixed string, repaired bool) {
	fixed, note := fixCallID(id, NewCallID)
	return fixed, note != ""
}

// fixCallID returns the valid ID and the repair description, or an empty description when id was
// already valid.
func fixCallID(id string, gen IDGenerator) (string, string) {
	if strings.TrimSpace(id) == "" {
		fresh := generateCallID(gen)
		return fresh, fmt.Sprintf("generated new tool call ID %q", fresh)
	}
	if isAlnum(id[0]) {
		return id, ""
	}
	sanitized := strings.TrimLeftFunc(id, func(r rune) bool {
		return r > 0x7f || !isAlnum(byte(r))
	})
	if sanitized == "" {
		sanitized = generateCallID(gen)
	}
	return sanitized, fmt.Sprintf("sanitized tool call ID %q to %q", id, sanitized)
}

func generateCallID(gen IDGenerator) string {
	id := gen()
	if id == "" || !isAlnum(id[0]) {
		id = "call" + id
	}
	return id
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
