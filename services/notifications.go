package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// NotificationService delivers moderation outcomes to the notification
// collaborator by publishing decision events on a redis channel. Delivery is
// best-effort; the lifecycle engine never rolls back a committed decision
// because publishing failed.
type NotificationService struct {
	rdb     *redis.Client
	Channel string
}

// NewNotificationService creates a new notification service instance.
func NewNotificationService(rdb *redis.Client) *NotificationService {
	return &NotificationService{rdb: rdb, Channel: "listings.decisions"}
}

// ListingDecisionEvent is the payload consumed by the downstream mailer.
type ListingDecisionEvent struct {
	OwnerEmail string    `json:"ownerEmail"`
	ListingID  uint      `json:"listingId"`
	Message    string    `json:"message"`
	Decision   string    `json:"decision"` // Approved, Rejected
	DecidedAt  time.Time `json:"decidedAt"`
}

func (ns *NotificationService) PublishListingDecision(ownerEmail string, listingID uint, message, decision string) error {
	event := ListingDecisionEvent{
		OwnerEmail: ownerEmail,
		ListingID:  listingID,
		Message:    message,
		Decision:   decision,
		DecidedAt:  time.Now(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := ns.rdb.Publish(ctx, ns.Channel, payload).Err(); err != nil {
		log.Printf("failed to publish %s decision for listing %d: %v", decision, listingID, err)
		return err
	}
	return nil
}
