// Package gormstamp persists and filters boolean timestamps through gorm.
//
//	db.Scopes(gormstamp.Scope(UserActivated.Scope())).Find(&users)
//	err := UserActivated.Act(ctx, gormstamp.Updater{DB: db}, booltime.MustStruct(&u))
package gormstamp

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/syssam/booltime"
)

// Modeler is implemented by records wrapping a gorm model.
// *booltime.StructRecord implements it.
type Modeler interface {
	Model() any
}

// Updater is a booltime.Updater that writes one column with
// UpdateColumn, skipping hooks and the updated_at timestamp.
type Updater struct {
	DB *gorm.DB
}

// UpdateAttribute implements booltime.Updater.
func (u Updater) UpdateAttribute(ctx context.Context, rec booltime.Record, attr string) error {
	m, ok := rec.(Modeler)
	if !ok {
		return fmt.Errorf("gormstamp: %T does not wrap a gorm model", rec)
	}
	t, err := rec.Timestamp(attr)
	if err != nil {
		return err
	}
	var value any
	if t != nil {
		value = *t
	}
	res := u.DB.WithContext(ctx).Model(m.Model()).UpdateColumn(attr, value)
	if res.Error != nil {
		return fmt.Errorf("gormstamp: update %s: %w", attr, res.Error)
	}
	// MySQL reports changed rows, so rewriting a kept timestamp affects none.
	if res.RowsAffected == 0 && u.DB.Dialector.Name() != "mysql" {
		var key any
		if k, ok := rec.(booltime.Keyed); ok {
			_, key, _ = k.Key()
		}
		return booltime.NewNotFoundError(res.Statement.Table, key)
	}
	return nil
}

// Scope returns a gorm scope selecting rows whose timestamp is set.
func Scope(s booltime.Scope) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(clause.Expr{
			SQL:  "? IS NOT NULL",
			Vars: []any{clause.Column{Name: s.Column}},
		})
	}
}

var _ booltime.Updater = Updater{}
