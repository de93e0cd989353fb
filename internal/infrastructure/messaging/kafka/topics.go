// Package kafka publishes intelligence events so downstream consumers
// (notification fan-out, BI pipelines) can react to critical competitive
// threats without polling the API.
package kafka

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	segkafka "github.com/segmentio/kafka-go"

	"github.com/helix-insights/madison/pkg/errors"
)

// Topic constants.
const (
	TopicCompetitiveIntelAlert  = "competitive_intel.alert"
	TopicCompetitiveIntelUpdate = "competitive_intel.update"
)

// Event types carried in EventEnvelope.EventType.
const (
	EventTypeThreatAlert       = "threat.alert"
	EventTypeAnalysisCompleted = "analysis.completed"
)

// envelopeSource identifies this service in published events.
const envelopeSource = "madison-intelligence"

// EventEnvelope standardizes event messages.
type EventEnvelope struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	Source        string            `json:"source"`
	Timestamp     time.Time         `json:"timestamp"`
	SchemaVersion string            `json:"schema_version"`
	TraceID       string            `json:"trace_id,omitempty"`
	Payload       json.RawMessage   `json:"payload"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// ThreatAlertPayload is published per critical-level record of a run.
type ThreatAlertPayload struct {
	ReportID     string    `json:"report_id"`
	Company      string    `json:"company"`
	Product      string    `json:"product"`
	ThreatScore  int       `json:"threat_score"`
	ThreatLevel  string    `json:"threat_level"`
	Confidence   int       `json:"confidence"`
	UrgentAction string    `json:"urgent_action"`
	RecordSource string    `json:"record_source"`
	DetectedAt   time.Time `json:"detected_at"`
}

// AnalysisCompletedPayload is published once per finished run.
type AnalysisCompletedPayload struct {
	ReportID          string    `json:"report_id"`
	SearchTerm        string    `json:"search_term"`
	TotalRecords      int       `json:"total_records"`
	CriticalCount     int       `json:"critical_count"`
	HighCount         int       `json:"high_count"`
	AverageConfidence int       `json:"average_confidence"`
	CompletedAt       time.Time `json:"completed_at"`
}

// NewEventEnvelope wraps payload in a fresh envelope.
func NewEventEnvelope(eventType string, payload interface{}) (*EventEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal payload")
	}
	return &EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		Source:        envelopeSource,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: "v1",
		Payload:       data,
	}, nil
}

// DecodePayload unmarshals the envelope payload into target.
func (e *EventEnvelope) DecodePayload(target interface{}) error {
	if len(e.Payload) == 0 || string(e.Payload) == "null" {
		return errors.New(errors.ErrCodeValidation, "empty payload")
	}
	if err := json.Unmarshal(e.Payload, target); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to unmarshal payload")
	}
	return nil
}

// ToMessage serializes the envelope into a Kafka message for topic.  The key
// partitions related events together.
func (e *EventEnvelope) ToMessage(topic string, key string) (segkafka.Message, error) {
	val, err := json.Marshal(e)
	if err != nil {
		return segkafka.Message{}, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal envelope")
	}
	headers := []segkafka.Header{
		{Key: "event_type", Value: []byte(e.EventType)},
		{Key: "source_service", Value: []byte(e.Source)},
		{Key: "schema_version", Value: []byte(e.SchemaVersion)},
	}
	if e.TraceID != "" {
		headers = append(headers, segkafka.Header{Key: "trace_id", Value: []byte(e.TraceID)})
	}
	return segkafka.Message{
		Topic:   topic,
		Key:     []byte(key),
		Value:   val,
		Headers: headers,
		Time:    e.Timestamp,
	}, nil
}
