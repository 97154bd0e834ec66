package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profile-concierge-be/internal/pkg/logger"
	"profile-concierge-be/pkg/convo"
	"profile-concierge-be/pkg/store"
)

type fakePublisher struct {
	published []*message.Message
	topic     string
	err       error
}

func (f *fakePublisher) Publish(topic string, messages ...*message.Message) error {
	if f.err != nil {
		return f.err
	}
	f.topic = topic
	f.published = append(f.published, messages...)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

type fakeSink struct {
	records []TurnRecord
	err     error
}

func (f *fakeSink) AppendTurn(ctx context.Context, record TurnRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, record)
	return nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }
func (nopLogger) GetLogs(string, int, int) ([]logger.LogEntry, error) {
	return nil, nil
}

func loggedState() convo.ConversationState {
	return convo.ConversationState{
		Role:            convo.RoleSoftwareDeveloper,
		Query:           "How does it work?",
		SessionID:       "s-1",
		Answer:          "It works like this.",
		GroundingStatus: convo.GroundingOK,
		Intent:          convo.IntentResult{QueryType: convo.QueryTechnical},
		RetrievedChunks: []store.ScoredChunk{
			{Chunk: store.KnowledgeChunk{ID: "c1"}, Score: 0.8},
			{Chunk: store.KnowledgeChunk{ID: "c2"}, Score: 0.6},
		},
		AnalyticsMetadata: map[string]interface{}{"retrieval_path": "server_side"},
	}
}

func TestRecordPublishesTurnRecord(t *testing.T) {
	pub := &fakePublisher{}
	r := NewRecorder(pub, "RECORD_INTERACTION", &fakeSink{}, nopLogger{})

	delta := r.Record(context.Background(), loggedState(), 120*time.Millisecond, true)
	require.Len(t, pub.published, 1)
	assert.Equal(t, "RECORD_INTERACTION", pub.topic)
	assert.NotEqual(t, false, delta.Metadata["logged_at"])

	var record TurnRecord
	require.NoError(t, json.Unmarshal(pub.published[0].Payload, &record))
	assert.Equal(t, "s-1", record.Interaction.SessionID)
	assert.Equal(t, int64(120), record.Interaction.LatencyMs)
	require.NotNil(t, record.Retrieval)
	assert.Equal(t, []string{"c1", "c2"}, record.Retrieval.ChunkIDs)
	assert.InDelta(t, 0.8, record.Retrieval.TopScore, 1e-9)
	assert.Equal(t, "server_side", record.Retrieval.Path)
}

func TestRecordSkipsRetrievalRecordWhenRetrievalNeverRan(t *testing.T) {
	pub := &fakePublisher{}
	r := NewRecorder(pub, "topic", nil, nopLogger{})

	state := loggedState()
	state.GroundingStatus = convo.GroundingUnset
	state.RetrievedChunks = nil

	r.Record(context.Background(), state, time.Millisecond, true)
	require.Len(t, pub.published, 1)

	var record TurnRecord
	require.NoError(t, json.Unmarshal(pub.published[0].Payload, &record))
	assert.Nil(t, record.Retrieval)
}

func TestRecordFallsBackToDirectSink(t *testing.T) {
	pub := &fakePublisher{err: errors.New("bus down")}
	sink := &fakeSink{}
	r := NewRecorder(pub, "topic", sink, nopLogger{})

	delta := r.Record(context.Background(), loggedState(), time.Millisecond, true)
	require.Len(t, sink.records, 1)
	assert.Equal(t, "direct", delta.Metadata["telemetry_path"])
}

func TestRecordNeverFailsTheTurn(t *testing.T) {
	pub := &fakePublisher{err: errors.New("bus down")}
	sink := &fakeSink{err: errors.New("db down")}
	r := NewRecorder(pub, "topic", sink, nopLogger{})

	delta := r.Record(context.Background(), loggedState(), time.Millisecond, true)
	assert.Equal(t, false, delta.Metadata["logged_at"])
}
