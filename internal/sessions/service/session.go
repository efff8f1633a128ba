package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courtbook/internal/sessions/allocation"
	sessionserrors "courtbook/internal/sessions/errors"
	"courtbook/internal/sessions/lifecycle"
	"courtbook/internal/sessions/notifier"
	"courtbook/internal/sessions/repository"
	"courtbook/internal/sessions/share"
	"courtbook/internal/sessions/slots"
	"courtbook/pkg/config"
	apperrors "courtbook/pkg/errors"
	"courtbook/pkg/idgen"
	"courtbook/pkg/model"
	"courtbook/pkg/money"
)

const (
	ViewAll      = "all"
	ViewUpcoming = "upcoming"
	ViewPast     = "past"
)

type SessionService interface {
	Create(ctx context.Context, in model.SessionInput) (*model.SessionView, error)
	GetByID(ctx context.Context, id string) (*model.SessionView, error)
	List(ctx context.Context, view string) ([]model.SessionView, error)
	Delete(ctx context.Context, id string) error

	BookSlot(ctx context.Context, id string, in model.SlotInput) (*model.SessionView, error)
	CancelSlot(ctx context.Context, id string, slotID model.SlotID) (*model.SessionView, error)
	Finalize(ctx context.Context, id string, req model.FinalizeRequest) (*model.SessionView, error)

	CheckAllocation(ctx context.Context, id string, req model.FinalizeRequest) (*model.AllocationCheck, error)
	CostPreview(ctx context.Context, id string, liveTotal *float64) (*model.CostPreview, error)
	ShareLink(ctx context.Context, id string) (*model.ShareLink, error)
}

type InputValidator interface {
	ValidateSession(in model.SessionInput) error
	ValidateSlot(in model.SlotInput) error
}

type sessionService struct {
	repo      repository.SessionRepository
	validator InputValidator
	publisher notifier.Publisher
	links     *share.Builder
	nextID    slots.IDSource
	clock     idgen.Clock
	cfg       *config.Config
}

func NewSessionService(
	repo repository.SessionRepository,
	validator InputValidator,
	publisher notifier.Publisher,
	links *share.Builder,
	nextID slots.IDSource,
	clock idgen.Clock,
	cfg *config.Config,
) SessionService {
	if clock == nil {
		clock = idgen.DefaultClock{}
	}
	return &sessionService{
		repo:      repo,
		validator: validator,
		publisher: publisher,
		links:     links,
		nextID:    nextID,
		clock:     clock,
		cfg:       cfg,
	}
}

func (s *sessionService) Create(ctx context.Context, in model.SessionInput) (*model.SessionView, error) {
	session, err := lifecycle.Create(in, s.validator)
	if err != nil {
		s.cfg.Log.Warn("Session validation failed",
			"date", in.Date,
			"location", in.Location,
			"error", err,
		)
		return nil, err
	}

	if err := s.repo.Create(ctx, &session); err != nil {
		s.cfg.Log.Error("Failed to create session",
			"date", session.Date,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to create session", err)
	}

	s.cfg.Log.Info("Session created successfully",
		"id", session.ID,
		"date", session.Date,
		"location", session.Location,
		"max_slots", session.MaxSlots,
	)

	return toView(session), nil
}

func (s *sessionService) GetByID(ctx context.Context, id string) (*model.SessionView, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toView(*session), nil
}

// List returns sessions by date. The upcoming view holds today and later
// in the configured time zone; the past view holds everything before.
func (s *sessionService) List(ctx context.Context, view string) ([]model.SessionView, error) {
	if view == "" {
		view = ViewAll
	}
	if view != ViewAll && view != ViewUpcoming && view != ViewPast {
		return nil, apperrors.InvalidInput(fmt.Sprintf("view must be one of: %s, %s, %s", ViewAll, ViewUpcoming, ViewPast))
	}

	stored, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list sessions", "view", view, "error", err)
		return nil, apperrors.Internal("Failed to retrieve sessions", err)
	}

	sessions := make([]model.Session, 0, len(stored))
	for _, session := range stored {
		sessions = append(sessions, *session)
	}

	switch view {
	case ViewUpcoming:
		sessions, _ = lifecycle.Partition(sessions, s.today())
	case ViewPast:
		_, sessions = lifecycle.Partition(sessions, s.today())
	}

	views := make([]model.SessionView, 0, len(sessions))
	for _, session := range sessions {
		views = append(views, *toView(session))
	}
	return views, nil
}

func (s *sessionService) Delete(ctx context.Context, id string) error {
	session, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	deletion, err := lifecycle.Delete(*session)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapRepoError(err, id, "delete")
	}

	s.cfg.Log.Info("Session deleted successfully",
		"id", deletion.SessionID,
		"prior_state", deletion.Prior,
		"slots", deletion.Slots,
	)
	return nil
}

func (s *sessionService) BookSlot(ctx context.Context, id string, in model.SlotInput) (*model.SessionView, error) {
	in = lifecycle.NormalizeSlot(in)
	if err := s.validator.ValidateSlot(in); err != nil {
		s.cfg.Log.Warn("Slot validation failed", "session_id", id, "error", err)
		return nil, lifecycle.InvalidInput(err)
	}

	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := lifecycle.BookSlot(*session, in, s.nextID)
	if err != nil {
		if errors.Is(err, sessionserrors.ErrCapacityExceeded) {
			s.cfg.Log.Info("Booking rejected, session is full",
				"session_id", id,
				"max_slots", session.MaxSlots,
			)
		}
		return nil, err
	}

	if err := s.repo.Update(ctx, id, model.SessionUpdate{Slots: &updated.Slots}); err != nil {
		return nil, s.mapRepoError(err, id, "book slot")
	}

	booked := updated.Slots[len(updated.Slots)-1]
	s.cfg.Log.Info("Slot booked successfully",
		"session_id", id,
		"slot_id", booked.ID,
		"player_name", booked.PlayerName,
		"remaining", slots.Remaining(updated.Slots, updated.MaxSlots),
	)

	return toView(updated), nil
}

func (s *sessionService) CancelSlot(ctx context.Context, id string, slotID model.SlotID) (*model.SessionView, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, found := slots.Find(session.Slots, slotID); !found {
		s.cfg.Log.Debug("Cancel requested for unknown slot", "session_id", id, "slot_id", slotID)
		return toView(*session), nil
	}

	updated := lifecycle.CancelSlot(*session, slotID)

	update := model.SessionUpdate{Slots: &updated.Slots}
	if updated.IndividualCosts != nil {
		update.IndividualCosts = &updated.IndividualCosts
	}
	if err := s.repo.Update(ctx, id, update); err != nil {
		return nil, s.mapRepoError(err, id, "cancel slot")
	}

	s.cfg.Log.Info("Slot cancelled successfully",
		"session_id", id,
		"slot_id", slotID,
	)
	return toView(updated), nil
}

// Finalize records the fee and announces it. A failed announcement is
// logged and does not undo the finalize.
func (s *sessionService) Finalize(ctx context.Context, id string, req model.FinalizeRequest) (*model.SessionView, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, event, err := lifecycle.Finalize(*session, req.TotalAmount, req.IndividualCosts, s.clock.Now())
	if err != nil {
		s.cfg.Log.Warn("Finalize rejected",
			"session_id", id,
			"total_amount", req.TotalAmount,
			"error", err,
		)
		return nil, err
	}

	update := model.SessionUpdate{
		TotalAmount:     &updated.TotalAmount,
		IsPaid:          &updated.IsPaid,
		IndividualCosts: &updated.IndividualCosts,
		CostPerPerson:   updated.CostPerPerson,
		SplitMode:       &updated.SplitMode,
		FinalizedAt:     updated.FinalizedAt,
	}
	if err := s.repo.Update(ctx, id, update); err != nil {
		return nil, s.mapRepoError(err, id, "finalize")
	}

	s.cfg.Log.Info("Session finalized successfully",
		"session_id", id,
		"total_amount", updated.TotalAmount,
		"split_mode", updated.SplitMode,
		"slots", len(updated.Slots),
	)

	if err := s.publisher.PublishFinalized(ctx, event); err != nil {
		s.cfg.Log.Error("Failed to publish session finalized event",
			"session_id", id,
			"error", err,
		)
	}

	return toView(updated), nil
}

// CheckAllocation reports how far the entered amounts are from the total
// without storing anything.
func (s *sessionService) CheckAllocation(ctx context.Context, id string, req model.FinalizeRequest) (*model.AllocationCheck, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := allocation.CheckAmounts(req.IndividualCosts, req.TotalAmount); err != nil {
		return nil, err
	}

	summary := allocation.Summarize(req.IndividualCosts, req.TotalAmount)
	check := &model.AllocationCheck{
		Sum:     summary.Sum,
		Total:   summary.Total,
		Delta:   summary.Delta,
		Matches: summary.Matches,
	}

	if err := allocation.CheckKeys(req.IndividualCosts, session.Slots); err != nil {
		if unknown, ok := apperrors.AsAppError(err).Details["unknown_slot_ids"].([]int64); ok {
			check.UnknownSlotIDs = unknown
		}
		check.Matches = false
	}
	return check, nil
}

// CostPreview returns the per-person figure. Unpaid sessions preview
// liveTotal split evenly, falling back to the stored total.
func (s *sessionService) CostPreview(ctx context.Context, id string, liveTotal *float64) (*model.CostPreview, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	total := session.TotalAmount
	if liveTotal != nil {
		if !money.Finite(*liveTotal) {
			return nil, apperrors.InvalidInput("total must be a finite number")
		}
		if *liveTotal < 0 {
			return nil, apperrors.InvalidInput("total must not be negative")
		}
		total = *liveTotal
	}

	return &model.CostPreview{
		SessionID:     session.ID,
		CostPerPerson: allocation.CostPerPerson(*session, total),
		Final:         session.IsPaid,
	}, nil
}

func (s *sessionService) ShareLink(ctx context.Context, id string) (*model.ShareLink, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.ShareLink{
		SessionID: session.ID,
		URL:       s.links.Link(session.ID),
	}, nil
}

func (s *sessionService) load(ctx context.Context, id string) (*model.Session, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Session ID cannot be empty")
	}

	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id, "load")
	}
	return session, nil
}

func (s *sessionService) mapRepoError(err error, id, op string) error {
	switch {
	case errors.Is(err, sessionserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Session", id).WithCause(err)
	case errors.Is(err, sessionserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid session ID format").WithCause(err)
	}

	s.cfg.Log.Error("Session repository call failed",
		"operation", op,
		"id", id,
		"error", err,
	)
	return apperrors.Internal(fmt.Sprintf("Failed to %s session", op), err)
}

func (s *sessionService) today() string {
	now := s.clock.Now()
	if s.cfg.Location != nil {
		now = now.In(s.cfg.Location)
	}
	return now.Format(time.DateOnly)
}

func toView(session model.Session) *model.SessionView {
	return &model.SessionView{
		Session:        session,
		State:          string(lifecycle.StateOf(session)),
		SlotsRemaining: slots.Remaining(session.Slots, session.MaxSlots),
	}
}
