// Package booltime derives boolean accessors backed by a nullable timestamp.
//
// A declaration takes an active-form verb and derives the passive form and
// the timestamp attribute that stores the state:
//
//	activate -> activated -> activated_at
//	close    -> closed    -> closed_at
//	deny     -> denied    -> denied_at
//
// The boolean is never stored. It is true exactly when the timestamp
// attribute is non-null.
//
// # Declaring
//
//	var Activated = booltime.Declare("activate")
//	var Closed = booltime.Declare("close", booltime.WithPassive("closed"))
//
// # Runtime use
//
// The declaration works over any Record. Struct adapts a pointer to a
// struct with a *time.Time or sql.NullTime field:
//
//	rec, err := booltime.Struct(&user)
//	if err != nil {
//	    return err
//	}
//	_ = Activated.Set(rec, "yes")       // staged in memory only
//	err = Activated.Act(ctx, store, rec) // set and persisted immediately
//	ok, err := Activated.Is(rec)
//
// Act persists through an Updater; Set never does. The sqlstore package and
// the gormstamp adapter provide Updaters for database/sql and gorm.
//
// # Scopes
//
// Scope returns the named filter "activated_at IS NOT NULL". Store
// implementations render it for their query language:
//
//	keys, err := store.Keys(ctx, Activated.Scope())
//	db.Scopes(gormstamp.Scope(Activated.Scope())).Find(&users)
//
// # Generated code
//
// cmd/booltimegen emits explicit methods (Activate, Activated,
// SetActivated, IsActivated and ActivatedUsers) for configured struct types.
package booltime
