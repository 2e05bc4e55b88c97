package queue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskValuesRoundTrip(t *testing.T) {
	task := Task{Type: TaskAssetDestroy, URL: "http://media.local/images/a.png", Reason: "avatar replaced"}

	// Stream entries come back with string values, which is what values() emits.
	values := map[string]interface{}{}
	for k, v := range task.values() {
		values[k] = v
	}

	decoded, err := DecodeTask(values)
	require.NoError(t, err)
	assert.Equal(t, task, decoded)
}

func TestTaskValuesOmitEmptyFields(t *testing.T) {
	assert.Equal(t, map[string]any{"type": TaskStagingSweep}, Task{Type: TaskStagingSweep}.values())
}

func TestDecodeTaskRequiresType(t *testing.T) {
	_, err := DecodeTask(map[string]interface{}{"url": "x"})
	assert.ErrorIs(t, err, ErrMissingType)
}

func TestNilProducerIsNoop(t *testing.T) {
	var producer *Producer
	assert.NoError(t, producer.Enqueue(context.Background(), Task{Type: TaskStagingSweep}))
}

func TestProducerWithoutClientIsNoop(t *testing.T) {
	producer := NewProducer(nil, "media:tasks")
	assert.NoError(t, producer.Enqueue(context.Background(), Task{Type: TaskAssetDestroy}))
}
