// Package stream provides a DynamoDB Streams handler that turns record table
// stream events into per-data-key change notifications.
package stream

import (
	"context"
	"log/slog"
	"reflect"

	"github.com/aws/aws-lambda-go/events"

	"github.com/jacentio/satchel/store"
)

// Kind classifies a record-level change.
type Kind string

const (
	// RecordCreated means a row appeared for a main key that had none.
	RecordCreated Kind = "created"

	// RecordUpdated means an existing row's data map changed.
	RecordUpdated Kind = "updated"

	// RecordDeleted means the row was removed wholesale.
	RecordDeleted Kind = "deleted"
)

// Change describes what one stream record did to a main key's data map.
type Change struct {
	// MainKey identifies the affected record.
	MainKey string

	// Kind is the record-level classification.
	Kind Kind

	// Added holds data keys present only in the new image, with their values.
	Added map[string]any

	// Updated holds data keys whose value changed, with their new values.
	Updated map[string]any

	// Removed lists data keys present only in the old image.
	Removed []string
}

// Func receives one Change per processed stream record. Returning an error
// fails the batch so Lambda redelivers it.
type Func func(ctx context.Context, change Change) error

// Handler processes DynamoDB stream events for a satchel record table.
type Handler struct {
	fn     Func
	logger *slog.Logger
}

// NewHandler creates a new stream handler dispatching to fn.
func NewHandler(fn Func, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		fn:     fn,
		logger: logger,
	}
}

// HandleEvent processes a DynamoDB stream event batch. It is designed to be
// used as an AWS Lambda handler. Records that do not change the data map
// (version-only rewrites) are skipped.
func (h *Handler) HandleEvent(ctx context.Context, event events.DynamoDBEvent) error {
	for _, record := range event.Records {
		if err := h.processRecord(ctx, record); err != nil {
			h.logger.Error("failed to process record",
				"eventID", record.EventID,
				"error", err,
			)
			return err // Will retry, eventually DLQ
		}
	}
	return nil
}

func (h *Handler) processRecord(ctx context.Context, record events.DynamoDBEventRecord) error {
	mainKey := getStringAttr(record.Change.Keys, store.MainKeyAttr)
	if mainKey == "" {
		// Not a satchel record; other item types may share the stream.
		return nil
	}

	var kind Kind
	switch record.EventName {
	case "INSERT":
		kind = RecordCreated
	case "MODIFY":
		kind = RecordUpdated
	case "REMOVE":
		kind = RecordDeleted
	default:
		return nil
	}

	oldData := dataImage(record.Change.OldImage)
	newData := dataImage(record.Change.NewImage)

	change := diff(mainKey, kind, oldData, newData)
	if kind == RecordUpdated && len(change.Added) == 0 && len(change.Updated) == 0 && len(change.Removed) == 0 {
		return nil
	}

	h.logger.Info("dispatching record change",
		"mainKey", mainKey,
		"kind", kind,
		"added", len(change.Added),
		"updated", len(change.Updated),
		"removed", len(change.Removed),
	)

	if h.fn == nil {
		return nil
	}
	return h.fn(ctx, change)
}

// diff computes the per-data-key delta between two data map images.
func diff(mainKey string, kind Kind, oldData, newData map[string]any) Change {
	change := Change{
		MainKey: mainKey,
		Kind:    kind,
		Added:   map[string]any{},
		Updated: map[string]any{},
	}

	for key, newValue := range newData {
		oldValue, existed := oldData[key]
		switch {
		case !existed:
			change.Added[key] = newValue
		case !reflect.DeepEqual(oldValue, newValue):
			change.Updated[key] = newValue
		}
	}
	for key := range oldData {
		if _, ok := newData[key]; !ok {
			change.Removed = append(change.Removed, key)
		}
	}

	return change
}
