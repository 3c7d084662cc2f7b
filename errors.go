package tsql

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

/*
Error codes. You probably shouldn't use this directly; instead, use the `Err`
variables with `errors.Is`.
*/
type ErrCode string

const (
	ErrCodeUnknown               ErrCode = ""
	ErrCodeNoRows                ErrCode = "ErrNoRows"
	ErrCodeMultipleRows          ErrCode = "ErrMultipleRows"
	ErrCodeInvalidInput          ErrCode = "ErrInvalidInput"
	ErrCodeArity                 ErrCode = "ErrArity"
	ErrCodeNull                  ErrCode = "ErrNull"
	ErrCodeDecode                ErrCode = "ErrDecode"
	ErrCodeEncode                ErrCode = "ErrEncode"
	ErrCodeScan                  ErrCode = "ErrScan"
	ErrCodeColumnCount           ErrCode = "ErrColumnCount"
	ErrCodeInconsistentOuterJoin ErrCode = "ErrInconsistentOuterJoin"
)

/*
Use blank error variables to detect error types:

	if errors.Is(err, tsql.ErrNoRows) {
		// Handle specific error.
	}

Note that errors returned by tsql can't be compared via `==` because they may
include additional details about the circumstances. When compared by
`errors.Is`, they compare `.Cause` and fall back on `.Code`.
*/
var (
	ErrNoRows                Err = Err{Code: ErrCodeNoRows, Cause: sql.ErrNoRows}
	ErrMultipleRows          Err = Err{Code: ErrCodeMultipleRows, Cause: errors.New(`expected one row, got multiple`)}
	ErrInvalidInput          Err = Err{Code: ErrCodeInvalidInput, Cause: errors.New(`invalid input`)}
	ErrArity                 Err = Err{Code: ErrCodeArity, Cause: errors.New(`mismatch between children and unmapped values`)}
	ErrNull                  Err = Err{Code: ErrCodeNull, Cause: errors.New(`null cell for non-nullable column`)}
	ErrDecode                Err = Err{Code: ErrCodeDecode, Cause: errors.New(`error while decoding cell`)}
	ErrEncode                Err = Err{Code: ErrCodeEncode, Cause: errors.New(`error while encoding parameter`)}
	ErrScan                  Err = Err{Code: ErrCodeScan, Cause: errors.New(`error while scanning row`)}
	ErrColumnCount           Err = Err{Code: ErrCodeColumnCount, Cause: errors.New(`result column count doesn't match descriptor`)}
	ErrInconsistentOuterJoin Err = Err{Code: ErrCodeInconsistentOuterJoin, Cause: errors.New(`inconsistent outer join result`)}
)

// Describes a tsql error.
type Err struct {
	Code  ErrCode
	While string
	Cause error
}

// Implement `error`.
func (self Err) Error() string {
	if self == (Err{}) {
		return ""
	}
	msg := `SQL error`
	if self.Code != ErrCodeUnknown {
		msg += fmt.Sprintf(` %s`, self.Code)
	}
	if self.While != "" {
		msg += fmt.Sprintf(` while %v`, self.While)
	}
	if self.Cause != nil {
		msg += `: ` + self.Cause.Error()
	}
	return msg
}

// Implement a hidden interface in "errors".
func (self Err) Is(other error) bool {
	if self.Cause != nil && errors.Is(self.Cause, other) {
		return true
	}
	err, ok := other.(Err)
	return ok && err.Code == self.Code
}

// Implement a hidden interface in "errors".
func (self Err) Unwrap() error {
	return self.Cause
}

func (self Err) while(while string) Err {
	self.While = while
	return self
}

func (self Err) because(cause error) Err {
	self.Cause = cause
	return self
}

/*
Returned when decoding an optional composite finds a row that no well-formed
outer join can produce: some columns say the related row is absent and others
say it's present. Carries the offending child indexes and their raw cells.
Matches `ErrInconsistentOuterJoin` via `errors.Is`.
*/
type InconsistentOuterJoinError struct {
	// Name of the optional composite, see `Composite.Label`.
	Label string
	// True if the group was first decided absent, then a value was seen.
	ExpectedAbsent bool
	// Child indexes that contradict the decision, in column order.
	Indexes []int
	// Raw cells of each contradicting child.
	Cells [][]any
}

// Implement `error`.
func (self *InconsistentOuterJoinError) Error() string {
	var buf strings.Builder
	buf.WriteString(`SQL error `)
	buf.WriteString(string(ErrCodeInconsistentOuterJoin))
	buf.WriteString(` while decoding `)
	buf.WriteString(self.Label)
	if self.ExpectedAbsent {
		buf.WriteString(`: group is absent, but children have values:`)
	} else {
		buf.WriteString(`: group is present, but non-nullable children are null:`)
	}
	for i, index := range self.Indexes {
		buf.WriteString(spew.Sprintf(` [%d]=%v`, index, self.Cells[i]))
	}
	return buf.String()
}

// Implement a hidden interface in "errors".
func (self *InconsistentOuterJoinError) Is(other error) bool {
	err, ok := other.(Err)
	return ok && err.Code == ErrCodeInconsistentOuterJoin
}

// Implement a hidden interface in "errors".
func (self *InconsistentOuterJoinError) Unwrap() error {
	return ErrInconsistentOuterJoin.Cause
}
