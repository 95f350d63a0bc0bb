package booltime

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm/schema"
)

// Record is a host record holding named nullable timestamp attributes.
// Both methods work on in-memory state only.
type Record interface {
	// Timestamp returns the value of the named attribute, nil when null.
	Timestamp(attr string) (*time.Time, error)
	// SetTimestamp stages the named attribute. A nil t clears it.
	SetTimestamp(attr string, t *time.Time) error
}

// Updater persists a single attribute of a record immediately, using the
// value currently held by the record.
type Updater interface {
	UpdateAttribute(ctx context.Context, rec Record, attr string) error
}

// UpdaterFunc adapts a function to the Updater interface.
type UpdaterFunc func(ctx context.Context, rec Record, attr string) error

// UpdateAttribute calls f(ctx, rec, attr).
func (f UpdaterFunc) UpdateAttribute(ctx context.Context, rec Record, attr string) error {
	return f(ctx, rec, attr)
}

// Keyed is implemented by records that can locate their row in storage.
type Keyed interface {
	Key() (column string, value any, err error)
}

var (
	timeType     = reflect.TypeOf(time.Time{})
	timePtrType  = reflect.TypeOf((*time.Time)(nil))
	nullTimeType = reflect.TypeOf(sql.NullTime{})
	naming       = schema.NamingStrategy{}
	structCache  sync.Map // reflect.Type -> *structMeta
)

type stampKind uint8

const (
	kindOther stampKind = iota
	kindPointer
	kindNullTime
)

type structField struct {
	index  []int
	column string
	kind   stampKind
}

type structMeta struct {
	typ     reflect.Type
	columns map[string]*structField
	key     *structField
}

// StructRecord adapts a pointer to a struct to the Record and Keyed
// interfaces. Timestamp attributes are fields of type *time.Time or
// sql.NullTime.
//
// Column names are resolved from the `db` tag, then the gorm `column:` tag,
// then the gorm naming strategy (ActivatedAt -> activated_at). The key is the
// field tagged with gorm `primaryKey`, or the field whose column is "id".
type StructRecord struct {
	ptr  any
	v    reflect.Value
	meta *structMeta
}

// Struct returns a Record over ptr, which must be a non-nil pointer to a struct.
func Struct(ptr any) (*StructRecord, error) {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("booltime: expect a non-nil pointer to a struct, got %T", ptr)
	}
	return &StructRecord{ptr: ptr, v: rv.Elem(), meta: metaOf(rv.Elem().Type())}, nil
}

// MustStruct is like Struct but panics on error.
func MustStruct(ptr any) *StructRecord {
	r, err := Struct(ptr)
	if err != nil {
		panic(err)
	}
	return r
}

// Model returns the wrapped struct pointer.
func (r *StructRecord) Model() any { return r.ptr }

// Timestamp implements Record.
func (r *StructRecord) Timestamp(attr string) (*time.Time, error) {
	f, err := r.stamp(attr)
	if err != nil {
		return nil, err
	}
	fv := r.v.FieldByIndex(f.index)
	switch f.kind {
	case kindPointer:
		if fv.IsNil() {
			return nil, nil
		}
		t := fv.Elem().Interface().(time.Time)
		return &t, nil
	default:
		nt := fv.Interface().(sql.NullTime)
		if !nt.Valid {
			return nil, nil
		}
		return &nt.Time, nil
	}
}

// SetTimestamp implements Record.
func (r *StructRecord) SetTimestamp(attr string, t *time.Time) error {
	f, err := r.stamp(attr)
	if err != nil {
		return err
	}
	fv := r.v.FieldByIndex(f.index)
	switch f.kind {
	case kindPointer:
		if t == nil {
			fv.Set(reflect.Zero(timePtrType))
			return nil
		}
		c := *t
		fv.Set(reflect.ValueOf(&c))
	default:
		var nt sql.NullTime
		if t != nil {
			nt = sql.NullTime{Time: *t, Valid: true}
		}
		fv.Set(reflect.ValueOf(nt))
	}
	return nil
}

// Key implements Keyed.
func (r *StructRecord) Key() (string, any, error) {
	if r.meta.key == nil {
		return "", nil, fmt.Errorf("%w: %s", ErrNoKey, r.meta.typ)
	}
	return r.meta.key.column, r.v.FieldByIndex(r.meta.key.index).Interface(), nil
}

func (r *StructRecord) stamp(attr string) (*structField, error) {
	f, ok := r.meta.columns[attr]
	if !ok {
		return nil, NewAttributeError(r.meta.typ.String(), attr, "")
	}
	if f.kind == kindOther {
		return nil, NewAttributeError(r.meta.typ.String(), attr, "not a nullable timestamp")
	}
	return f, nil
}

func metaOf(t reflect.Type) *structMeta {
	if m, ok := structCache.Load(t); ok {
		return m.(*structMeta)
	}
	m := &structMeta{typ: t, columns: make(map[string]*structField)}
	m.walk(t, nil)
	if m.key == nil {
		m.key = m.columns["id"]
	}
	actual, _ := structCache.LoadOrStore(t, m)
	return actual.(*structMeta)
}

func (m *structMeta) walk(t reflect.Type, index []int) {
	for i := range t.NumField() {
		sf := t.Field(i)
		idx := append(append([]int(nil), index...), i)
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct && !isStamp(sf.Type) {
			m.walk(sf.Type, idx)
			continue
		}
		column, ok := columnOf(sf)
		if !ok {
			continue
		}
		// Outer fields shadow embedded ones.
		if _, exists := m.columns[column]; exists {
			continue
		}
		f := &structField{index: idx, column: column, kind: kindOf(sf.Type)}
		m.columns[column] = f
		if m.key == nil && isPrimaryKey(sf) {
			m.key = f
		}
	}
}

func columnOf(sf reflect.StructField) (string, bool) {
	if !sf.IsExported() {
		return "", false
	}
	if tag, ok := sf.Tag.Lookup("db"); ok {
		name, _, _ := strings.Cut(tag, ",")
		switch name {
		case "-":
			return "", false
		case "":
		default:
			return name, true
		}
	}
	settings := schema.ParseTagSetting(sf.Tag.Get("gorm"), ";")
	if _, ok := settings["-"]; ok {
		return "", false
	}
	if c := settings["COLUMN"]; c != "" {
		return c, true
	}
	return naming.ColumnName("", sf.Name), true
}

func isPrimaryKey(sf reflect.StructField) bool {
	settings := schema.ParseTagSetting(sf.Tag.Get("gorm"), ";")
	_, pk := settings["PRIMARYKEY"]
	_, legacy := settings["PRIMARY_KEY"]
	return pk || legacy
}

func kindOf(t reflect.Type) stampKind {
	switch t {
	case timePtrType:
		return kindPointer
	case nullTimeType:
		return kindNullTime
	default:
		return kindOther
	}
}

func isStamp(t reflect.Type) bool {
	return t == timeType || t == nullTimeType
}

var _ interface {
	Record
	Keyed
} = (*StructRecord)(nil)
