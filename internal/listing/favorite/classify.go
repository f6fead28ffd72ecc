package favorite

import (
	"errors"
	"strings"

	"github.com/CkBu3u/DiplomFinal/internal/listing/domain"
)

// Class is the failure class of a remote favorite call.
type Class int

const (
	ClassNone Class = iota
	ClassAuthExpired
	ClassOther
)

func (c Class) String() string {
	switch c {
	case ClassAuthExpired:
		return "auth_expired"
	case ClassOther:
		return "other"
	default:
		return "none"
	}
}

// DefaultAuthPatterns are the message fragments that mark a stale session
// when the backend gives no structured signal.
var DefaultAuthPatterns = []string{
	"401",
	"403",
	"forbidden",
	"permission",
	"row-level security",
	"session",
	"сессия",
	"jwt",
	"refresh",
	"unauthorized",
}

type Classifier struct {
	patterns []string
}

// NewClassifier matches error text against patterns case-insensitively.
// An empty list selects DefaultAuthPatterns.
func NewClassifier(patterns []string) *Classifier {
	if len(patterns) == 0 {
		patterns = DefaultAuthPatterns
	}
	c := &Classifier{patterns: make([]string, 0, len(patterns))}
	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			c.patterns = append(c.patterns, p)
		}
	}
	return c
}

func (c *Classifier) Classify(err error) Class {
	if err == nil {
		return ClassNone
	}
	if errors.Is(err, domain.ErrStoreCredentials) {
		return ClassOther
	}
	if errors.Is(err, domain.ErrAuthExpired) || errors.Is(err, domain.ErrUnauthenticated) {
		return ClassAuthExpired
	}
	msg := strings.ToLower(err.Error())
	for _, p := range c.patterns {
		if strings.Contains(msg, p) {
			return ClassAuthExpired
		}
	}
	return ClassOther
}
