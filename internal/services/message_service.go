package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/joshua-takyi/eventx/internal/models"
	"github.com/joshua-takyi/eventx/internal/monitoring"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const unknownSender = "Unknown"

type MessageService struct {
	messages models.MessageRepo
	users    models.UserRepo
	admins   models.AdminRepo
}

func NewMessageService(messages models.MessageRepo, users models.UserRepo, admins models.AdminRepo) *MessageService {
	return &MessageService{
		messages: messages,
		users:    users,
		admins:   admins,
	}
}

// Send stores a message from the caller. The recipient's kind is looked up
// once here and stored with the message.
func (ms *MessageService) Send(ctx context.Context, caller *models.Identity, to primitive.ObjectID, body string) (*models.MessageView, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("%w: message cannot be empty", models.ErrInvalidInput)
	}
	recipient, err := ms.recipientRef(ctx, to)
	if err != nil {
		return nil, err
	}

	msg, err := ms.messages.CreateMessage(ctx, models.NewMessage(caller.Ref(), recipient, body))
	if err != nil {
		return nil, err
	}
	monitoring.TrackMessage(string(msg.FromModel))

	l := ms.lookup()
	from, err := l.person(ctx, msg.Sender())
	if err != nil {
		return nil, err
	}
	toSummary, err := l.person(ctx, msg.Recipient())
	if err != nil {
		return nil, err
	}
	return &models.MessageView{
		ID:        msg.ID,
		From:      from,
		To:        toSummary,
		Msg:       msg.Msg,
		CreatedAt: msg.CreatedAt,
	}, nil
}

// recipientRef checks the admin store first and falls back to users.
func (ms *MessageService) recipientRef(ctx context.Context, id primitive.ObjectID) (models.IdentityRef, error) {
	if _, err := ms.admins.GetAdminByID(ctx, id); err == nil {
		return models.IdentityRef{ID: id, Kind: models.KindAdmin}, nil
	} else if !errors.Is(err, models.ErrNotFound) {
		return models.IdentityRef{}, err
	}
	if _, err := ms.users.GetUserByID(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.IdentityRef{}, fmt.Errorf("recipient %w", models.ErrNotFound)
		}
		return models.IdentityRef{}, err
	}
	return models.IdentityRef{ID: id, Kind: models.KindUser}, nil
}

// Thread returns the conversation between the caller and other, oldest first.
func (ms *MessageService) Thread(ctx context.Context, caller *models.Identity, other primitive.ObjectID) ([]*models.Message, error) {
	return ms.messages.ListThread(ctx, caller.ID, other)
}

// Inbox returns messages addressed to the caller, newest first, with the
// sender reduced to a name. limit <= 0 returns all of them.
func (ms *MessageService) Inbox(ctx context.Context, caller *models.Identity, limit int) ([]*models.InboxItem, error) {
	msgs, err := ms.messages.ListInbox(ctx, caller.ID, int64(limit))
	if err != nil {
		return nil, err
	}
	l := ms.lookup()
	items := make([]*models.InboxItem, 0, len(msgs))
	for _, m := range msgs {
		name, err := l.senderName(ctx, m.Sender())
		if err != nil {
			return nil, err
		}
		items = append(items, &models.InboxItem{
			ID:        m.ID,
			From:      name,
			Msg:       m.Msg,
			CreatedAt: m.CreatedAt,
		})
	}
	return items, nil
}

func (ms *MessageService) lookup() *lookup {
	return newLookup(ms.users, ms.admins, nil)
}

func (l *lookup) senderName(ctx context.Context, ref models.IdentityRef) (string, error) {
	p, err := l.person(ctx, ref)
	if err != nil {
		return "", err
	}
	if p == nil {
		return unknownSender, nil
	}
	return p.Name, nil
}
