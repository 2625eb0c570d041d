package events

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"task-service/internal/model"
)

type EventPublisher interface {
	PublishUserRegistered(user *model.User) error
	PublishUserDeleted(userID uuid.UUID) error
	PublishTaskCreated(task *model.Task) error
}

type NatsPublisher struct {
	conn *nats.Conn
}

func NewNatsPublisher(natsURL string) (EventPublisher, error) {
	nc, err := nats.Connect(natsURL)

	if err != nil {
		return nil, err
	}

	return &NatsPublisher{conn: nc}, nil
}

type UserRegisteredEvent struct {
	EventType string    `json:"event_type"`
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
}

type UserDeletedEvent struct {
	EventType string    `json:"event_type"`
	UserID    uuid.UUID `json:"user_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

type TaskCreatedEvent struct {
	EventType   string    `json:"event_type"`
	TaskID      uuid.UUID `json:"task_id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Description string    `json:"description"`
}

func (p *NatsPublisher) PublishUserRegistered(user *model.User) error {
	event := UserRegisteredEvent{
		EventType: "user.registered",
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
	}

	return p.publish("user.registered", event)
}

func (p *NatsPublisher) PublishUserDeleted(userID uuid.UUID) error {
	event := UserDeletedEvent{
		EventType: "user.deleted",
		UserID:    userID,
		DeletedAt: time.Now(),
	}

	return p.publish("user.deleted", event)
}

func (p *NatsPublisher) PublishTaskCreated(task *model.Task) error {
	event := TaskCreatedEvent{
		EventType:   "task.created",
		TaskID:      task.ID,
		OwnerID:     task.OwnerID,
		Description: task.Description,
	}

	return p.publish("task.created", event)
}

func (p *NatsPublisher) publish(subject string, event interface{}) error {
	eventJSON, err := json.Marshal(event)

	if err != nil {
		log.Printf("Error marshalling event JSON: %v", err)
		return err
	}

	if err := p.conn.Publish(subject, eventJSON); err != nil {
		log.Printf("Error publishing to NATS: %v", err)
		return err
	}

	log.Printf("Published event to NATS on subject '%s'", subject)

	return nil
}
