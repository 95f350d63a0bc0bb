package graphql

import (
	"fmt"
	"time"

	"github.com/99designs/gqlgen/graphql"

	"github.com/syssam/booltime"
)

// TimeModel is the gqlgen model bound to the Time scalar by Bind.
const TimeModel = "github.com/99designs/gqlgen/graphql.Time"

// MarshalTimestamp marshals the <passive>At field. A nil timestamp is null.
func MarshalTimestamp(t *time.Time) graphql.Marshaler {
	if t == nil {
		return graphql.Null
	}
	return graphql.MarshalTime(*t)
}

// UnmarshalTimestamp is the inverse of MarshalTimestamp.
func UnmarshalTimestamp(v any) (*time.Time, error) {
	if v == nil {
		return nil, nil
	}
	t, err := graphql.UnmarshalTime(v)
	if err != nil {
		return nil, fmt.Errorf("graphql: timestamp: %w", err)
	}
	return &t, nil
}

// Resolvers returns the two field resolvers of f for a gqlgen model
// resolver: the predicate and the marshaled timestamp.
//
//	func (r *userResolver) Activated(ctx context.Context, u *models.User) (bool, error) {
//		is, _ := graphql.Resolvers(models.UserActivated)
//		return is(booltime.MustStruct(u))
//	}
func Resolvers(f *booltime.Field) (is func(booltime.Record) (bool, error), at func(booltime.Record) (graphql.Marshaler, error)) {
	is = func(rec booltime.Record) (bool, error) {
		return f.Is(rec)
	}
	at = func(rec booltime.Record) (graphql.Marshaler, error) {
		t, err := rec.Timestamp(f.Attribute())
		if err != nil {
			return nil, err
		}
		return MarshalTimestamp(t), nil
	}
	return is, at
}
