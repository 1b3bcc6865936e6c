package boltstream

import (
	"errors"
	"fmt"

	"github.com/abdulrahman305/neo4j-jdbc/pkg/boltvalues"
)

// ErrNoRead is returned by WasNull when no getter has run on the current
// row yet.
var ErrNoRead = errors.New("boltstream: was_null called before any read on this row")

// ErrRecordClosed is returned by WasNull (or any getter) once the record's
// owning Stream has been closed or discarded.
var ErrRecordClosed = errors.New("boltstream: record accessed after stream close")

// Record is one row of a result: an ordered tuple of Values with a shared
// field-name schema. Typed getters enforce the driver's coercion rules;
// each getter updates the was-null flag, readable via WasNull until the
// next getter runs or the record is closed.
type Record struct {
	fieldNames []string
	values     []boltvalues.Value

	read    bool
	wasNull bool
	closed  bool
}

// NewRecord builds a Record from parallel field names and values; boltconn
// constructs these from RECORD messages against the field names declared by
// the preceding RUN's SUCCESS summary.
func NewRecord(fieldNames []string, values []boltvalues.Value) *Record {
	return &Record{fieldNames: fieldNames, values: values}
}

// Close invalidates the record; further getters fail with ErrRecordClosed.
// Called once a Stream advances past this row.
func (r *Record) Close() { r.closed = true }

// Len returns the number of fields.
func (r *Record) Len() int { return len(r.values) }

// FieldNames returns the declared field names, in order.
func (r *Record) FieldNames() []string { return r.fieldNames }

// Get returns the raw Value at index i.
func (r *Record) Get(i int) (boltvalues.Value, error) {
	if r.closed {
		return boltvalues.Value{}, ErrRecordClosed
	}
	if i < 0 || i >= len(r.values) {
		return boltvalues.Value{}, fmt.Errorf("boltstream: field index %d out of range [0,%d)", i, len(r.values))
	}
	r.read = true
	v := r.values[i]
	r.wasNull = v.IsNull()
	return v, nil
}

// GetByName returns the raw Value for the named field.
func (r *Record) GetByName(name string) (boltvalues.Value, error) {
	for i, n := range r.fieldNames {
		if n == name {
			return r.Get(i)
		}
	}
	return boltvalues.Value{}, fmt.Errorf("boltstream: no field named %q", name)
}

// WasNull reports whether the most recent getter read a Null value. It is
// only valid immediately after a getter call on this record; calling it
// before any read, or after the record is closed, fails.
func (r *Record) WasNull() (bool, error) {
	if r.closed {
		return false, ErrRecordClosed
	}
	if !r.read {
		return false, ErrNoRead
	}
	return r.wasNull, nil
}

// GetBoolean applies the driver's numeric/string→bool coercion rules.
func (r *Record) GetBoolean(i int) (bool, error) {
	v, err := r.Get(i)
	if err != nil {
		return false, err
	}
	return v.AsTypedBool()
}

// GetByte applies the narrow-int range check, Coercion on overflow, 0 on
// Null.
func (r *Record) GetByte(i int) (int8, error) {
	v, err := r.Get(i)
	if err != nil {
		return 0, err
	}
	return v.AsTypedByte()
}

// GetShort applies the narrow-int range check for int16.
func (r *Record) GetShort(i int) (int16, error) {
	v, err := r.Get(i)
	if err != nil {
		return 0, err
	}
	return v.AsTypedShort()
}

// GetInt applies the narrow-int range check for int32; Null yields 0.
func (r *Record) GetInt(i int) (int32, error) {
	v, err := r.Get(i)
	if err != nil {
		return 0, err
	}
	return v.AsTypedInt()
}

// GetString returns the raw String value, or "" on Null.
func (r *Record) GetString(i int) (string, error) {
	v, err := r.Get(i)
	if err != nil {
		return "", err
	}
	if v.IsNull() {
		return "", nil
	}
	if v.Kind() != boltvalues.KindString {
		return "", &boltvalues.CoercionError{From: v.Kind(), To: "string"}
	}
	return v.AsString(), nil
}

// GetDate projects the value as a Date, propagating Unsupported reasons:
// any temporal projection that encounters an Unsupported value surfaces
// the underlying reason rather than a generic coercion error.
func (r *Record) GetDate(i int) (boltvalues.Date, error) {
	v, err := r.Get(i)
	if err != nil {
		return boltvalues.Date{}, err
	}
	return v.AsTypedDate()
}

// GetDateTime projects the value as a DateTime, propagating Unsupported
// reasons.
func (r *Record) GetDateTime(i int) (boltvalues.DateTime, error) {
	v, err := r.Get(i)
	if err != nil {
		return boltvalues.DateTime{}, err
	}
	return v.AsTypedDateTime()
}
