package booltime

import (
	"context"
	"time"
)

// Clock returns the current instant. It is the timestamp provider of a declaration.
type Clock func() time.Time

// Option configures a declaration.
type Option func(*Field)

// WithPassive sets the passive form explicitly instead of deriving it.
// The name is used verbatim.
func WithPassive(name string) Option {
	return func(f *Field) {
		f.passive = name
	}
}

// WithClock sets the timestamp provider. The default is time.Now.
func WithClock(c Clock) Option {
	return func(f *Field) {
		if c != nil {
			f.clock = c
		}
	}
}

// Field is a boolean timestamp declaration. It is created once per record
// type and is safe for concurrent use.
type Field struct {
	active    string
	passive   string
	attribute string
	clock     Clock
	names     Names
}

// Declare declares a boolean timestamp for the given active-form name.
//
//	booltime.Declare("activate")                               // activated / activated_at
//	booltime.Declare("deny")                                   // denied / denied_at
//	booltime.Declare("ship", booltime.WithPassive("shipped"))  // shipped / shipped_at
func Declare(active string, opts ...Option) *Field {
	f := &Field{
		active: Normalize(active),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.passive == "" {
		f.passive = Passive(f.active)
	}
	f.attribute = f.passive + AttributeSuffix
	f.names = names(f.active, f.passive, f.attribute)
	return f
}

// Active returns the normalized active form, e.g. "activate".
func (f *Field) Active() string { return f.active }

// Passive returns the passive form, e.g. "activated".
func (f *Field) Passive() string { return f.passive }

// Attribute returns the timestamp attribute name, e.g. "activated_at".
func (f *Field) Attribute() string { return f.attribute }

// Names returns the Go identifiers of the bound behaviours.
func (f *Field) Names() Names { return f.names }

// Now returns the current instant from the declaration's clock.
func (f *Field) Now() time.Time { return f.clock() }

// String implements fmt.Stringer.
func (f *Field) String() string { return f.active + " -> " + f.attribute }

// Act sets the boolean on rec and persists the attribute through u.
// A record that is already set keeps its timestamp. Act returns the
// errors of rec and u unmodified.
func (f *Field) Act(ctx context.Context, u Updater, rec Record) error {
	if err := f.Set(rec, true); err != nil {
		return err
	}
	return u.UpdateAttribute(ctx, rec, f.attribute)
}

// Get reports the boolean state of rec. It is equivalent to Is.
func (f *Field) Get(rec Record) (bool, error) {
	return f.Is(rec)
}

// Set coerces v with Truthy and stages the result on rec. Setting true on
// a record that is already set is a no-op, so the original timestamp is
// kept. Setting false clears the timestamp. Set does not persist.
func (f *Field) Set(rec Record, v any) error {
	on := Truthy(v)
	if on {
		set, err := f.Is(rec)
		if err != nil {
			return err
		}
		if set {
			return nil
		}
		now := f.clock()
		return rec.SetTimestamp(f.attribute, &now)
	}
	return rec.SetTimestamp(f.attribute, nil)
}

// Is reports whether the timestamp attribute of rec is non-null.
func (f *Field) Is(rec Record) (bool, error) {
	t, err := rec.Timestamp(f.attribute)
	if err != nil {
		return false, err
	}
	return t != nil, nil
}

// Scope returns the named filter selecting records whose timestamp is set.
func (f *Field) Scope() Scope {
	return Scope{Name: f.passive, Column: f.attribute}
}

// Scope is a named filter selecting records where Column IS NOT NULL.
type Scope struct {
	Name   string
	Column string
}

// Match evaluates the scope against rec in memory.
func (s Scope) Match(rec Record) (bool, error) {
	t, err := rec.Timestamp(s.Column)
	if err != nil {
		return false, err
	}
	return t != nil, nil
}

// String returns the SQL form of the scope.
func (s Scope) String() string {
	return s.Column + " IS NOT NULL"
}
