package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	// ErrArithmetic covers overflow, underflow and malformed numeric input.
	ErrArithmetic = errors.New("arithmetic error")
	// ErrInsufficientFunds is returned when a debit would exceed the
	// available or held balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// amountScale is the number of Amount units per currency unit.
const amountScale = 10000

// minNormal is the smallest positive normal float64 (2^-1022).
const minNormal = 0x1p-1022

// Amount is a monetary value stored as an unsigned count of 1/10000ths
// of a currency unit.
//
// Floating-point numbers cannot represent all four-digit decimal
// fractions exactly, so amounts are kept integer-exact after ingestion
// and the only tolerated float is the one crossing the parse boundary
// in AmountFromFloat. The underlying integer is unexported so that
// unchecked arithmetic cannot be written against it; negative amounts
// are unrepresentable by construction.
type Amount struct {
	units uint64
}

// AmountFromFloat converts a decimal value into an Amount, truncating
// toward zero beyond four fractional digits.
//
// The input is rejected unless the scaled value is exactly zero or a
// positive normal float: negatives, NaN, infinities and positive
// subnormals all fail with ErrArithmetic. Scaled values at or beyond
// 2^64 are rejected as well rather than saturated.
func AmountFromFloat(f float64) (Amount, error) {
	scaled := f * amountScale
	if scaled == 0 {
		return Amount{}, nil
	}
	if math.IsNaN(scaled) || math.IsInf(scaled, 0) || scaled < minNormal {
		return Amount{}, ErrArithmetic
	}
	if scaled >= 1<<64 {
		return Amount{}, ErrArithmetic
	}
	return Amount{units: uint64(scaled)}, nil
}

// Add returns the sum of two amounts, failing with ErrArithmetic if the
// sum exceeds the 64-bit unsigned range.
func (a Amount) Add(other Amount) (Amount, error) {
	sum := a.units + other.units
	if sum < a.units {
		return Amount{}, ErrArithmetic
	}
	return Amount{units: sum}, nil
}

// Sub returns the difference of two amounts, failing with ErrArithmetic
// if other is greater than a.
func (a Amount) Sub(other Amount) (Amount, error) {
	if other.units > a.units {
		return Amount{}, ErrArithmetic
	}
	return Amount{units: a.units - other.units}, nil
}

// Cmp returns -1, 0 or 1 comparing a against other.
func (a Amount) Cmp(other Amount) int {
	switch {
	case a.units < other.units:
		return -1
	case a.units > other.units:
		return 1
	}
	return 0
}

// IsZero reports whether the amount is exactly zero.
func (a Amount) IsZero() bool {
	return a.units == 0
}

// String renders the amount with exactly four fractional digits. The
// rendering is computed from the integer representation, so it is exact
// over the whole range.
func (a Amount) String() string {
	return fmt.Sprintf("%d.%04d", a.units/amountScale, a.units%amountScale)
}

// ClientID identifies a client account. It wraps the raw integer so
// that arithmetic and ordering cannot be expressed on it; it is an
// identity, not a number.
type ClientID struct {
	id uint16
}

// NewClientID wraps a raw client identifier.
func NewClientID(id uint16) ClientID {
	return ClientID{id: id}
}

// Value returns the raw identifier for boundary encoding.
func (c ClientID) Value() uint16 {
	return c.id
}

func (c ClientID) String() string {
	return strconv.FormatUint(uint64(c.id), 10)
}

// TxID identifies a transaction. Like ClientID it is identity only.
type TxID struct {
	id uint32
}

// NewTxID wraps a raw transaction identifier.
func NewTxID(id uint32) TxID {
	return TxID{id: id}
}

// Value returns the raw identifier for boundary encoding.
func (t TxID) Value() uint32 {
	return t.id
}

func (t TxID) String() string {
	return strconv.FormatUint(uint64(t.id), 10)
}
