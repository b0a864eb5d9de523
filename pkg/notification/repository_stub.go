package notification

import (
	"context"
	"time"
)

type StubRepository struct {
	notifications map[int]Notification
	nextId        int
}

func NewStubRepository() *StubRepository {
	return &StubRepository{
		notifications: make(map[int]Notification),
		nextId:        1,
	}
}

func (r *StubRepository) Create(_ context.Context, n Notification) (int, error) {
	n.Id = r.nextId
	r.nextId++
	r.notifications[n.Id] = n
	return n.Id, nil
}

func (r *StubRepository) ListForUser(_ context.Context, userId int, unreadOnly bool) ([]Notification, error) {
	var result []Notification
	for id := r.nextId - 1; id >= 1; id-- {
		n, ok := r.notifications[id]
		if !ok || n.UserId != userId {
			continue
		}
		if unreadOnly && n.IsRead() {
			continue
		}
		result = append(result, n)
	}
	return result, nil
}

func (r *StubRepository) Get(_ context.Context, id int) (Notification, error) {
	n, ok := r.notifications[id]
	if !ok {
		return Notification{}, ErrNotificationNotFound
	}
	return n, nil
}

func (r *StubRepository) MarkRead(_ context.Context, id int, readAt time.Time) error {
	n, ok := r.notifications[id]
	if !ok {
		return ErrNotificationNotFound
	}
	if n.ReadAt.IsZero() {
		n.ReadAt = readAt
		r.notifications[id] = n
	}
	return nil
}

func (r *StubRepository) Cleanup() {
	r.notifications = make(map[int]Notification)
	r.nextId = 1
}
