package store

import "errors"

var (
	// ErrMainKeyNotFound is returned when no record exists for the bound main key.
	ErrMainKeyNotFound = errors.New("satchel: main key not found")

	// ErrDataKeyNotFound is returned when the record exists but has no such data key.
	ErrDataKeyNotFound = errors.New("satchel: data key not found")

	// ErrRecordModified is returned when a read-modify-write cycle keeps losing
	// to concurrent writers and runs out of attempts.
	ErrRecordModified = errors.New("satchel: record was modified concurrently")
)
