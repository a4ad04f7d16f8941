package eventstore_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dcbdemo/shopping-cart-engine-go/eventstore"
)

func Test_BuildStorableEvent(t *testing.T) {
	occurredAt := time.Date(2025, 7, 1, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name         string
		payloadJSON  string
		metadataJSON string
		expectedErr  error
	}{
		{
			name:         "valid_payload_and_metadata",
			payloadJSON:  `{"cartId": "cart-123"}`,
			metadataJSON: `{"messageId": "msg-1"}`,
		},
		{
			name:         "invalid_payload_json_errors",
			payloadJSON:  `{"cartId": `,
			metadataJSON: `{}`,
			expectedErr:  eventstore.ErrInvalidPayloadJSON,
		},
		{
			name:         "invalid_metadata_json_errors",
			payloadJSON:  `{}`,
			metadataJSON: `not json`,
			expectedErr:  eventstore.ErrInvalidMetadataJSON,
		},
		{
			name:         "empty_payload_errors",
			payloadJSON:  ``,
			metadataJSON: `{}`,
			expectedErr:  eventstore.ErrInvalidPayloadJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := eventstore.BuildStorableEvent(
				"CartCreated", occurredAt, []byte(tt.payloadJSON), []byte(tt.metadataJSON))

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Empty(t, event.EventType)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "CartCreated", event.EventType)
			assert.Equal(t, occurredAt, event.OccurredAt)
			assert.Equal(t, []byte(tt.payloadJSON), event.PayloadJSON)
			assert.Equal(t, []byte(tt.metadataJSON), event.MetadataJSON)
		})
	}
}

func Test_BuildStorableEventWithEmptyMetadata(t *testing.T) {
	occurredAt := time.Date(2025, 7, 1, 10, 30, 0, 0, time.UTC)

	event, err := eventstore.BuildStorableEventWithEmptyMetadata(
		"CartCreated", occurredAt, []byte(`{"cartId": "cart-123"}`))

	assert.NoError(t, err)
	assert.Equal(t, "CartCreated", event.EventType)
	assert.JSONEq(t, `{}`, string(event.MetadataJSON), "metadata should be empty JSON object")
}

func Test_BuildSequencedEvent(t *testing.T) {
	occurredAt := time.Date(2025, 7, 1, 10, 30, 0, 0, time.UTC)
	keys := eventstore.Keys{{Name: "cart", Value: "cart-123"}}

	event, err := eventstore.BuildSequencedEvent(
		42, "CartCreated", occurredAt, []byte(`{"cartId": "cart-123"}`), []byte(`{}`), keys)

	assert.NoError(t, err)
	assert.Equal(t, eventstore.Position(42), event.Position)
	assert.Equal(t, "CartCreated", event.EventType)
	assert.Equal(t, keys, event.Keys)
}

func Test_BuildSequencedEvent_InvalidPayload(t *testing.T) {
	occurredAt := time.Date(2025, 7, 1, 10, 30, 0, 0, time.UTC)

	_, err := eventstore.BuildSequencedEvent(
		1, "CartCreated", occurredAt, []byte(`broken`), []byte(`{}`), nil)

	assert.ErrorIs(t, err, eventstore.ErrInvalidPayloadJSON)
}
