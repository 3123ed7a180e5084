package notification

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/rahulpatwa/community-events-backend/utils"
)

// StartKafkaConsumer launches a goroutine that consumes attendance events
// and turns them into notifications. No-op when Kafka is not configured.
func StartKafkaConsumer(ctx context.Context, svc Service) {
	reader := utils.NewAttendanceReader("notification-service")
	if reader == nil {
		log.Println("ℹ️ Kafka not configured, attendance notifications disabled")
		return
	}

	go func() {
		defer reader.Close()
		log.Println("✅ Attendance notification consumer started")

		for {
			msg, err := reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					log.Println("ℹ️ Attendance notification consumer stopped")
					return
				}
				log.Printf("⚠️ Kafka read failed: %v", err)
				time.Sleep(2 * time.Second)
				continue
			}

			var evt utils.AttendanceEvent
			if err := json.Unmarshal(msg.Value, &evt); err != nil {
				log.Printf("⚠️ Dropping malformed attendance event: %v", err)
				continue
			}

			if err := svc.NotifyAttendance(ctx, evt); err != nil {
				log.Printf("⚠️ Failed to notify user %d for event %d: %v",
					evt.TargetUserID, evt.EventID, err)
			}
		}
	}()
}
