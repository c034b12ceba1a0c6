package service

import (
	"math/rand/v2"
	"strings"

	"github.com/glucocare/carelink/internal/carelink/domain"
)

// RandomSource yields uniform integers in [0, n). Implementations used by
// concurrent requests must be safe for concurrent use.
type RandomSource interface {
	IntN(n int) int
}

// DefaultRandom draws from math/rand/v2's global generator, which is
// goroutine-safe. Codes are shareable identifiers, not secrets, so a
// non-cryptographic source is acceptable.
var DefaultRandom RandomSource = globalRandom{}

type globalRandom struct{}

func (globalRandom) IntN(n int) int { return rand.IntN(n) }

// NewCandidateCode builds PAT- followed by characters sampled uniformly, with
// replacement, from domain.InviteCodeAlphabet.
func NewCandidateCode(r RandomSource) string {
	var b strings.Builder
	b.Grow(len(domain.InviteCodePrefix) + domain.InviteCodeRandomLength)
	b.WriteString(domain.InviteCodePrefix)

	for range domain.InviteCodeRandomLength {
		b.WriteByte(domain.InviteCodeAlphabet[r.IntN(len(domain.InviteCodeAlphabet))])
	}
	return b.String()
}
