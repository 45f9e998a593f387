package store

import "time"

// Config holds configuration for the Store.
type Config struct {
	// TableName is the name of the DynamoDB record table.
	// Default: "satchel_records"
	TableName string

	// ReadCapacityUnits is the provisioned read capacity used when the
	// table is created lazily. Default: 5
	ReadCapacityUnits int64

	// WriteCapacityUnits is the provisioned write capacity used when the
	// table is created lazily. Default: 5
	WriteCapacityUnits int64

	// MaxSaveAttempts is the number of read-modify-write cycles Save and
	// DeleteValue run before giving up with ErrRecordModified when the
	// conditional write keeps losing to concurrent writers.
	// Default: 3
	MaxSaveAttempts int

	// ProvisionTimeout bounds how long a lazily triggered table creation
	// waits for the table to become ACTIVE. Default: 2m
	ProvisionTimeout time.Duration

	// EnableStream provisions the table with a NEW_AND_OLD_IMAGES stream
	// so the stream package can consume record changes. It only affects
	// tables created by this Store.
	EnableStream bool
}

// DefaultConfig returns sensible defaults for small datasets.
func DefaultConfig() Config {
	return Config{
		TableName:          "satchel_records",
		ReadCapacityUnits:  5,
		WriteCapacityUnits: 5,
		MaxSaveAttempts:    3,
		ProvisionTimeout:   2 * time.Minute,
	}
}

// validate ensures config values are within acceptable bounds.
func (c *Config) validate() {
	if c.TableName == "" {
		c.TableName = "satchel_records"
	}
	if c.ReadCapacityUnits < 1 {
		c.ReadCapacityUnits = 5
	}
	if c.WriteCapacityUnits < 1 {
		c.WriteCapacityUnits = 5
	}
	if c.MaxSaveAttempts < 1 {
		c.MaxSaveAttempts = 3
	}
	if c.ProvisionTimeout <= 0 {
		c.ProvisionTimeout = 2 * time.Minute
	}
}
