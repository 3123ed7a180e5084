package utils

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/rahulpatwa/community-events-backend/config"
)

var (
	kafkaWriter  *kafka.Writer
	kafkaBrokers []string
	kafkaTopic   string
)

// AttendanceEvent is the message published to Kafka after every committed
// attendance transition. The notification consumer fans these out to
// in-app notifications and push messages.
type AttendanceEvent struct {
	Action       string    `json:"action"` // RSVP_CONFIRMED, RSVP_WAITLISTED, ...
	EventID      uint      `json:"event_id"`
	EventTitle   string    `json:"event_title"`
	TargetUserID uint      `json:"target_user_id"`
	ActorUserID  uint      `json:"actor_user_id"`
	Promoted     bool      `json:"promoted"` // true when confirmed via waitlist sweep
	OccurredAt   time.Time `json:"occurred_at"`
}

// InitializeKafka sets up the shared attendance-event writer.
// Kafka is optional: when KAFKA_BROKERS is unset, publishing is disabled.
func InitializeKafka(cfg *config.Config) {
	if cfg.KafkaBrokers == "" {
		log.Println("ℹ️ KAFKA_BROKERS not set, attendance events will not be published")
		return
	}

	kafkaBrokers = strings.Split(cfg.KafkaBrokers, ",")
	kafkaTopic = cfg.KafkaAttendanceTopic
	if kafkaTopic == "" {
		kafkaTopic = "attendance-events"
	}

	kafkaWriter = &kafka.Writer{
		Addr:         kafka.TCP(kafkaBrokers...),
		Topic:        kafkaTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
	}

	log.Printf("✅ Kafka writer ready (topic=%s)", kafkaTopic)
}

// PublishAttendanceEvent sends one attendance event, keyed by event ID so
// all transitions for an event stay ordered within a partition.
func PublishAttendanceEvent(ctx context.Context, evt AttendanceEvent) {
	if kafkaWriter == nil {
		return
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		log.Printf("⚠️ Kafka marshal failed: %v", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(evt.EventID), 10)),
		Value: payload,
	}
	if err := kafkaWriter.WriteMessages(ctx, msg); err != nil {
		log.Printf("⚠️ Kafka publish failed for event %d: %v", evt.EventID, err)
	}
}

// NewAttendanceReader creates a consumer for the attendance topic.
// Returns nil when Kafka is not configured.
func NewAttendanceReader(groupID string) *kafka.Reader {
	if len(kafkaBrokers) == 0 {
		return nil
	}
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  kafkaBrokers,
		GroupID:  groupID,
		Topic:    kafkaTopic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
}
