package queue

import (
	"encoding/json"
	"fmt"

	"alumniconnect/internal/events"
)

// StreamChanges carries every committed change, shared by all instances.
const StreamChanges = "stream:changes"

// GroupFor returns the consumer group of one instance. Each instance reads the
// whole stream, so groups are per instance rather than shared.
func GroupFor(instanceID string) string {
	return "changes:" + instanceID
}

// toValues converts the event to field-value pairs for XADD. The full event is
// serialized into "data"; "type" is kept alongside for XRANGE debugging.
func toValues(e events.ChangeEvent) (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": string(e.Type),
		"data": string(data),
	}, nil
}

// ParseChangeEvent parses a ChangeEvent from Redis stream message values.
func ParseChangeEvent(values map[string]interface{}) (events.ChangeEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return events.ChangeEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event events.ChangeEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return events.ChangeEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
