package utils

import (
	"encoding/json"
	"fmt"
)

// ToRawMessage encodes a queue message body.
func ToRawMessage(v any) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %T message: %w", v, err)
	}
	return data, nil
}
