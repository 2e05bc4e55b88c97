package queue

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	TaskAssetDestroy = "asset.destroy"
	TaskStagingSweep = "staging.sweep"
)

var (
	ErrMissingType = errors.New("task type is missing")

	// ErrPermanent marks a failure that retrying cannot fix.
	ErrPermanent = errors.New("permanent task failure")
)

// Permanent wraps err so the consumer acks the task instead of retrying it.
func Permanent(err error) error {
	return fmt.Errorf("%w: %w", ErrPermanent, err)
}

// Task is one entry of the media task stream.
type Task struct {
	Type   string `json:"type"`
	URL    string `json:"url,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func (t Task) values() map[string]any {
	values := map[string]any{"type": t.Type}
	if t.URL != "" {
		values["url"] = t.URL
	}
	if t.Reason != "" {
		values["reason"] = t.Reason
	}
	return values
}

// DecodeTask turns stream entry fields back into a Task.
func DecodeTask(values map[string]interface{}) (Task, error) {
	raw, err := json.Marshal(values)
	if err != nil {
		return Task{}, fmt.Errorf("marshal values: %w", err)
	}
	var task Task
	if err := json.Unmarshal(raw, &task); err != nil {
		return Task{}, fmt.Errorf("unmarshal task: %w", err)
	}
	if task.Type == "" {
		return Task{}, ErrMissingType
	}
	return task, nil
}
