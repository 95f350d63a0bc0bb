package booltime

import (
	"strings"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// AttributeSuffix is appended to the passive form to name the timestamp attribute.
const AttributeSuffix = "_at"

var lower = cases.Lower(language.Und)

// Normalize trims surrounding white space and lowercases name.
func Normalize(name string) string {
	return lower.String(strings.TrimSpace(name))
}

// Passive derives the past-participle form of an active-form verb.
//
//	apply    -> applied
//	close    -> closed
//	activate -> activated
//	open     -> opened
//
// The rules are a heuristic and are kept as is: "play" becomes "plaied"
// and "stop" becomes "stoped". The empty string becomes "ed".
func Passive(active string) string {
	active = Normalize(active)
	switch {
	case strings.HasSuffix(active, "y"):
		return strings.TrimSuffix(active, "y") + "ied"
	case strings.HasSuffix(active, "e"):
		return active + "d"
	default:
		return active + "ed"
	}
}

// Names holds the Go identifiers of the behaviours bound to a declaration.
type Names struct {
	// Action sets the timestamp and persists it, e.g. Activate.
	Action string
	// Reader reports the boolean, e.g. Activated.
	Reader string
	// Writer stages the boolean, e.g. SetActivated.
	Writer string
	// Predicate reports whether the timestamp is set, e.g. IsActivated.
	Predicate string
	// Field is the struct field holding the timestamp, e.g. ActivatedAt.
	Field string
}

// ScopeName returns the name of the scope function generated for the
// given record type, e.g. ActivatedUsers for ("activated", "User").
func (n Names) ScopeName(typeName string) string {
	return n.Reader + inflect.Pluralize(inflect.Camelize(typeName))
}

// names derives the Go identifiers for a declaration.
func names(active, passive, attribute string) Names {
	reader := inflect.Camelize(passive)
	return Names{
		Action:    inflect.Camelize(active),
		Reader:    reader,
		Writer:    "Set" + reader,
		Predicate: "Is" + reader,
		Field:     inflect.Camelize(attribute),
	}
}
