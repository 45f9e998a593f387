package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	// initialBackoff is the first delay between conditional-write retries.
	initialBackoff = 50 * time.Millisecond

	// maxBackoff is the maximum delay between conditional-write retries.
	maxBackoff = 2 * time.Second
)

// Record is an accessor bound to one main key. Obtain it from
// [Store.MainKey]. The zero value is not usable.
type Record struct {
	store   *Store
	mainKey string
}

// MainKey returns the bound main key.
func (r *Record) MainKey() string {
	return r.mainKey
}

// Save sets dataKey to value in the record's data map, creating the record
// (and, if needed, the table) on first use. The value must be marshalable by
// the DynamoDB attributevalue encoder, i.e. JSON-like.
//
// Save is a strongly consistent read-modify-write with a conditional write
// on the record's version; under contention it retries the whole cycle up to
// Config.MaxSaveAttempts times before failing with [ErrRecordModified].
func (r *Record) Save(ctx context.Context, dataKey string, value any) error {
	if err := r.validateKeys(dataKey); err != nil {
		return err
	}

	return r.modify(ctx, true, func(data map[string]any) error {
		data[dataKey] = value
		return nil
	})
}

// Load returns the value stored under dataKey. Reads are strongly
// consistent. A missing record fails with [ErrMainKeyNotFound], a record
// without the data key with [ErrDataKeyNotFound]. A missing table is
// provisioned first; the load then fails with [ErrMainKeyNotFound] since a
// fresh table holds no records.
func (r *Record) Load(ctx context.Context, dataKey string) (any, error) {
	if err := r.validateKeys(dataKey); err != nil {
		return nil, err
	}

	rec, err := r.fetchOrProvision(ctx)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrMainKeyNotFound
	}

	value, ok := rec.Data[dataKey]
	if !ok {
		return nil, ErrDataKeyNotFound
	}
	return value, nil
}

// LoadAll returns a copy of the record's whole data map, or
// [ErrMainKeyNotFound] if no record exists for the bound main key.
func (r *Record) LoadAll(ctx context.Context) (map[string]any, error) {
	if err := r.validateMainKey(); err != nil {
		return nil, err
	}

	rec, err := r.fetchOrProvision(ctx)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrMainKeyNotFound
	}

	data := make(map[string]any, len(rec.Data))
	for k, v := range rec.Data {
		data[k] = v
	}
	return data, nil
}

// DeleteValue removes dataKey from the record's data map, leaving sibling
// keys untouched. A missing record fails with [ErrMainKeyNotFound], a record
// without the data key with [ErrDataKeyNotFound]. Unlike Save and Load this
// path does not provision a missing table; the DynamoDB error propagates.
func (r *Record) DeleteValue(ctx context.Context, dataKey string) error {
	if err := r.validateKeys(dataKey); err != nil {
		return err
	}

	return r.modify(ctx, false, func(data map[string]any) error {
		if _, ok := data[dataKey]; !ok {
			return ErrDataKeyNotFound
		}
		delete(data, dataKey)
		return nil
	})
}

// Delete removes the whole record unconditionally. Deleting a record that
// does not exist is not an error; DynamoDB does not report the distinction
// and neither does Delete.
func (r *Record) Delete(ctx context.Context) error {
	if err := r.validateMainKey(); err != nil {
		return err
	}

	if err := r.store.deleteRow(ctx, r.mainKey); err != nil {
		return fmt.Errorf("delete record %q from table %s: %w",
			r.mainKey, r.store.config.TableName, err)
	}
	return nil
}

// modify runs the read-modify-write cycle shared by Save and DeleteValue.
// provision controls whether a missing table is created and waited for
// (Save) or surfaced as-is (DeleteValue); when provision is false a missing
// record fails with ErrMainKeyNotFound instead of starting an empty one.
func (r *Record) modify(ctx context.Context, provision bool, mutate func(data map[string]any) error) error {
	backoff := initialBackoff

	for attempt := 1; ; attempt++ {
		var rec *record
		var err error

		if provision {
			rec, err = r.fetchOrProvision(ctx)
		} else {
			rec, err = r.store.fetch(ctx, r.mainKey)
			if err != nil {
				err = fmt.Errorf("load record %q from table %s: %w",
					r.mainKey, r.store.config.TableName, err)
			}
		}
		if err != nil {
			return err
		}

		data := map[string]any{}
		var version int64
		if rec != nil {
			data = rec.Data
			version = rec.Version
		} else if !provision {
			return ErrMainKeyNotFound
		}

		if err := mutate(data); err != nil {
			return err
		}

		err = r.store.put(ctx, r.mainKey, data, version)
		if err == nil {
			return nil
		}
		if !isConditionFailed(err) {
			return fmt.Errorf("write record %q to table %s: %w",
				r.mainKey, r.store.config.TableName, err)
		}

		if attempt >= r.store.config.MaxSaveAttempts {
			return ErrRecordModified
		}

		r.store.logger.Debug("conditional write lost, retrying",
			"mainKey", r.mainKey,
			"attempt", attempt,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, maxBackoff)
	}
}

// fetchOrProvision reads the row, creating the table first when the read
// reports it missing. Returns (nil, nil) when no row exists.
func (r *Record) fetchOrProvision(ctx context.Context) (*record, error) {
	rec, err := r.store.fetch(ctx, r.mainKey)
	if err == nil {
		return rec, nil
	}
	if !isTableMissing(err) {
		return nil, fmt.Errorf("load record %q from table %s: %w",
			r.mainKey, r.store.config.TableName, err)
	}

	r.store.logger.Info("record table missing, provisioning",
		"table", r.store.config.TableName,
		"mainKey", r.mainKey,
	)
	if err := r.store.EnsureTable(ctx); err != nil {
		return nil, err
	}

	// A table that did not exist a moment ago has no rows.
	return nil, nil
}

func (r *Record) validateKeys(dataKey string) error {
	if err := r.validateMainKey(); err != nil {
		return err
	}
	if dataKey == "" {
		return errors.New("data key cannot be empty")
	}
	return nil
}

func (r *Record) validateMainKey() error {
	if r.mainKey == "" {
		return errors.New("main key cannot be empty")
	}
	return nil
}
