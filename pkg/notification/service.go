package notification

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/archsheet/archsheet/internal/event_bus"
	"github.com/archsheet/archsheet/internal/utils"
	"github.com/archsheet/archsheet/pkg/user"
)

type Service interface {
	ListNotifications(ctx context.Context, unreadOnly bool) ([]Notification, error)
	MarkRead(ctx context.Context, id int) error
}

type ServiceImpl struct {
	repo     Repository
	userRepo user.Repo
	clock    utils.Clock
}

func NewService(repo Repository, userRepo user.Repo, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, userRepo: userRepo, clock: clock}
}

// Register subscribes the service to timesheet lifecycle events. Handler
// errors are logged by the bus, never surfaced to the publishing request.
func (s *ServiceImpl) Register(eb *event_bus.EventBus) {
	event_bus.SubscribeTyped(eb, event_bus.TimesheetSubmittedEvent, s.onSubmitted)
	event_bus.SubscribeTyped(eb, event_bus.TimesheetApprovedEvent, s.onApproved)
	event_bus.SubscribeTyped(eb, event_bus.TimesheetRejectedEvent, s.onRejected)
}

func (s *ServiceImpl) ListNotifications(ctx context.Context, unreadOnly bool) ([]Notification, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.ListForUser(ctx, userId, unreadOnly)
}

func (s *ServiceImpl) MarkRead(ctx context.Context, id int) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	n, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if n.UserId != userId {
		return ErrNotificationNotFound
	}
	return s.repo.MarkRead(ctx, id, s.clock.Now())
}

// onSubmitted notifies the owner's manager that a timesheet awaits review.
// Owners without an assigned manager produce no notification.
func (s *ServiceImpl) onSubmitted(e event_bus.EventT[event_bus.TimesheetSubmitted]) error {
	ctx := e.Context()
	owner, err := s.userRepo.GetUser(ctx, e.Data.OwnerId)
	if err != nil {
		return err
	}
	if owner.ManagerId == 0 {
		log.Debugf("user %d has no manager, skipping submit notification", owner.Id)
		return nil
	}
	message := fmt.Sprintf("%s submitted a timesheet for %s - %s (%.2f hours)",
		owner.DisplayName(),
		e.Data.PeriodStart.Format(time.DateOnly),
		e.Data.PeriodEnd.Format(time.DateOnly),
		e.Data.TotalHours,
	)
	return s.notify(ctx, owner.ManagerId, e.Data.TimesheetId, message)
}

func (s *ServiceImpl) onApproved(e event_bus.EventT[event_bus.TimesheetApproved]) error {
	ctx := e.Context()
	approver, err := s.userRepo.GetUser(ctx, e.Data.ApproverId)
	if err != nil {
		return err
	}
	message := fmt.Sprintf("Your timesheet was approved by %s", approver.DisplayName())
	return s.notify(ctx, e.Data.OwnerId, e.Data.TimesheetId, message)
}

func (s *ServiceImpl) onRejected(e event_bus.EventT[event_bus.TimesheetRejected]) error {
	message := "Your timesheet was rejected"
	if e.Data.Reason != "" {
		message += ": " + e.Data.Reason
	}
	return s.notify(e.Context(), e.Data.OwnerId, e.Data.TimesheetId, message)
}

func (s *ServiceImpl) notify(ctx context.Context, userId int, timesheetId int, message string) error {
	_, err := s.repo.Create(ctx, Notification{
		UserId:      userId,
		TimesheetId: timesheetId,
		Message:     message,
		CreatedAt:   s.clock.Now(),
	})
	return err
}
