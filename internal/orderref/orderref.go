// Package orderref issues human-readable order numbers.
package orderref

import (
	"encoding/hex"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Prefix starts every order number.
const Prefix = "SAL-"

// SaleNumberLength is the fixed length of numbers issued by NewSaleNumber.
const SaleNumberLength = len(Prefix) + timeChars + randomChars

const (
	timeChars   = 4
	randomChars = 3
	maxAttempts = 64
	alphabet    = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// Strategy names a Generator implementation.
type Strategy string

const (
	StrategySaleNumber Strategy = "sal"
	StrategyUUID       Strategy = "uuid"
)

// Generator issues order references.
type Generator interface {
	Next() string
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func() string

// Next implements Generator.
func (f GeneratorFunc) Next() string { return f() }

// New returns the generator for strategy; unknown strategies fall back to sale numbers.
func New(strategy Strategy) Generator {
	if strategy == StrategyUUID {
		return NewUUID()
	}
	return NewSaleNumber(time.Now)
}

// SaleNumber issues "SAL-" + the last four base-36 digits of the current
// millisecond timestamp + three random base-36 characters. Numbers already
// issued by this generator are never repeated.
type SaleNumber struct {
	now func() time.Time

	mu     sync.Mutex
	issued map[string]struct{}
}

// NewSaleNumber constructs a SaleNumber generator reading time from now.
func NewSaleNumber(now func() time.Time) *SaleNumber {
	if now == nil {
		now = time.Now
	}
	return &SaleNumber{now: now, issued: make(map[string]struct{})}
}

// Next implements Generator.
func (g *SaleNumber) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	var ref string
	for attempt := 0; attempt < maxAttempts; attempt++ {
		ref = Prefix + timePart(g.now()) + randomPart()
		if _, dup := g.issued[ref]; !dup {
			break
		}
	}
	g.issued[ref] = struct{}{}
	return ref
}

func timePart(t time.Time) string {
	s := strings.ToUpper(strconv.FormatInt(t.UnixMilli(), 36))
	if len(s) < timeChars {
		s = strings.Repeat("0", timeChars-len(s)) + s
	}
	return s[len(s)-timeChars:]
}

func randomPart() string {
	var b [randomChars]byte
	for i := range b {
		b[i] = alphabet[rand.IntN(len(alphabet))]
	}
	return string(b[:])
}

// UUID issues "SAL-" + sixteen upper-case hex characters taken from a random UUID.
type UUID struct{}

// NewUUID constructs a UUID generator.
func NewUUID() UUID { return UUID{} }

// Next implements Generator.
func (UUID) Next() string {
	id := uuid.New()
	return Prefix + strings.ToUpper(hex.EncodeToString(id[:8]))
}
