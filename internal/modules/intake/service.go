package intake

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"bookingintake/internal/calendar"
	"bookingintake/internal/domain"
	"bookingintake/internal/session"
)

const (
	msgAvailabilityFailed = "Could not load available time slots. Please pick another date or try again."
	msgSubmissionFailed   = "Could not submit your booking request. Please try again."
	msgSubmissionOK       = "Your booking request has been received. A confirmation is on its way."
)

type Service struct {
	sessions SessionStore
	calendar CalendarClient
	notifier Notifier
	hook     CompletionHook
	log      *zap.Logger

	now func() time.Time
}

func NewService(sessions SessionStore, cal CalendarClient, notifier Notifier, hook CompletionHook, log *zap.Logger) *Service {
	return &Service{
		sessions: sessions,
		calendar: cal,
		notifier: notifier,
		hook:     hook,
		log:      log,
		now:      time.Now,
	}
}

// StartSession creates a fresh wizard session. The booking type comes from
// the hosting page's context and defaults to a revenue audit; the time zone
// is resolved client-side once and fixed for the session.
func (s *Service) StartSession(ctx context.Context, req StartSessionRequest) (*session.Session, error) {
	t := domain.BookingType(req.BookingType)
	if t == "" {
		t = domain.TypeRevenueAudit
	}
	if !t.Valid() {
		return nil, ErrValidation
	}

	tz := req.TimeZone
	if tz == "" {
		tz = "UTC"
	}

	sess := session.New(t, tz)
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}

	s.log.Info("intake session started",
		zap.String("session_id", sess.ID),
		zap.String("booking_type", string(t)),
		zap.String("time_zone", tz))
	return sess, nil
}

func (s *Service) GetSession(ctx context.Context, id string) (*session.Session, error) {
	sess, err := s.sessions.Get(ctx, id)
	if errors.Is(err, session.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	return sess, err
}

// UpdateSession applies a partial field edit. Edits are applied in event
// order; the gate is recomputed by the caller from the returned session.
func (s *Service) UpdateSession(ctx context.Context, id string, req UpdateSessionRequest) (*session.Session, error) {
	sess, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.BookingType != nil {
		if err := s.applyBookingType(sess, domain.BookingType(*req.BookingType)); err != nil {
			return nil, err
		}
	}

	applyString(req.ClientName, &sess.State.ClientName)
	applyString(req.ClientEmail, &sess.State.ClientEmail)
	applyString(req.ClientPhone, &sess.State.ClientPhone)
	applyString(req.Company, &sess.State.Company)
	applyString(req.Industry, &sess.State.Industry)
	applyString(req.TeamSize, &sess.State.TeamSize)

	if req.MeetingType != nil {
		mt := domain.MeetingType(*req.MeetingType)
		if !mt.Valid() {
			return nil, ErrValidation
		}
		sess.State.MeetingType = mt
	}

	if req.SelectedDate != nil {
		if err := s.applyDate(sess, *req.SelectedDate); err != nil {
			return nil, err
		}
	}

	if req.SelectedTime != nil {
		key := domain.AvailabilityKey{Date: sess.State.SelectedDate, Type: sess.State.BookingType}
		if !sess.Availability.Offers(key, *req.SelectedTime) {
			return nil, ErrSlotNotOffered
		}
		sess.State.SelectedTime = *req.SelectedTime
	}

	if err := s.applyAuditFields(sess, req); err != nil {
		return nil, err
	}
	if err := s.applyConsultationFields(sess, req); err != nil {
		return nil, err
	}

	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// applyBookingType enforces the step 1 lock: the type is immutable once the
// wizard has advanced, until the user restarts step 1.
func (s *Service) applyBookingType(sess *session.Session, t domain.BookingType) error {
	if !t.Valid() {
		return ErrValidation
	}
	if t == sess.State.BookingType {
		return nil
	}
	if sess.Step != domain.StepContact {
		return ErrTypeLocked
	}

	sess.State.SetBookingType(t)
	// slots were fetched for the old type; the selection is void
	sess.State.SelectedTime = ""
	sess.Availability.Reset()
	return nil
}

// applyDate runs the pre-filter and invalidates the slot selection: a time
// chosen for the previous date never survives a date change.
func (s *Service) applyDate(sess *session.Session, date string) error {
	if date == sess.State.SelectedDate {
		return nil
	}
	if err := domain.CheckDateSelectable(date, sess.State.TimeZone, s.now()); err != nil {
		return ErrDateNotSelectable
	}

	sess.State.SelectedDate = date
	sess.State.SelectedTime = ""
	sess.Availability.Reset()
	return nil
}

func (s *Service) applyAuditFields(sess *session.Session, req UpdateSessionRequest) error {
	touched := req.SpecificAreas != nil || req.CurrentSystems != nil ||
		req.RevenueGoals != nil || req.PainPoints != nil
	if !touched {
		return nil
	}
	if sess.State.BookingType != domain.TypeRevenueAudit || sess.State.Audit == nil {
		return ErrValidation
	}

	if req.SpecificAreas != nil {
		sess.State.Audit.SpecificAreas = normalizeSet(*req.SpecificAreas)
	}
	if req.CurrentSystems != nil {
		sess.State.Audit.CurrentSystems = normalizeSet(*req.CurrentSystems)
	}
	applyString(req.RevenueGoals, &sess.State.Audit.RevenueGoals)
	applyString(req.PainPoints, &sess.State.Audit.PainPoints)
	return nil
}

func (s *Service) applyConsultationFields(sess *session.Session, req UpdateSessionRequest) error {
	touched := req.ConsultationType != nil || req.Objectives != nil ||
		req.CurrentSituation != nil || req.Budget != nil ||
		req.Timeline != nil || req.SpecificQuestions != nil
	if !touched {
		return nil
	}
	if sess.State.BookingType != domain.TypeConsultation || sess.State.Consultation == nil {
		return ErrValidation
	}

	if req.ConsultationType != nil {
		ct := domain.ConsultationType(*req.ConsultationType)
		if !domain.ValidConsultationType(ct) {
			return ErrValidation
		}
		sess.State.SetConsultationType(ct)
	}
	applyString(req.Objectives, &sess.State.Consultation.Objectives)
	applyString(req.CurrentSituation, &sess.State.Consultation.CurrentSituation)
	applyString(req.Budget, &sess.State.Consultation.Budget)
	applyString(req.Timeline, &sess.State.Consultation.Timeline)
	applyString(req.SpecificQuestions, &sess.State.Consultation.SpecificQuestions)
	return nil
}

// ResolveAvailability fetches free slots for the session's current
// (date, type) pair. A fetch failure is surfaced as a notification and a
// Failed availability state, never as an HTTP error: the step stays usable
// and picking another date retries implicitly.
func (s *Service) ResolveAvailability(ctx context.Context, id, dateOverride string) (*session.Session, error) {
	sess, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if dateOverride != "" && dateOverride != sess.State.SelectedDate {
		if err := s.applyDate(sess, dateOverride); err != nil {
			return nil, err
		}
	}
	if sess.State.SelectedDate == "" {
		return nil, ErrDateRequired
	}

	key := domain.AvailabilityKey{Date: sess.State.SelectedDate, Type: sess.State.BookingType}
	sess.Availability.Begin(key)
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	slots, fetchErr := s.calendar.Availability(ctx, key.Type, key.Date)

	// the user may have re-selected while the fetch was in flight; reload and
	// let the key guard decide whether this response still applies
	if cur, gerr := s.GetSession(ctx, id); gerr == nil {
		sess = cur
	}

	if fetchErr != nil {
		if sess.Availability.Fail(key, msgAvailabilityFailed) {
			if err := s.sessions.Save(ctx, sess); err != nil {
				return nil, err
			}
		}
		s.notifier.Error(ctx, id, msgAvailabilityFailed)
		s.log.Warn("availability resolve failed",
			zap.String("session_id", id),
			zap.String("date", key.Date),
			zap.Error(fetchErr))
		return sess, nil
	}

	if sess.Availability.Complete(key, slots) {
		if err := s.sessions.Save(ctx, sess); err != nil {
			return nil, err
		}
	}
	return sess, nil
}

// Advance moves the wizard forward when the current step's gate is
// satisfied.
func (s *Service) Advance(ctx context.Context, id string) (*session.Session, error) {
	sess, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if msg := domain.ValidationMessage(sess.Step, &sess.State); msg != "" {
		return nil, &GateError{Step: sess.Step, Message: msg}
	}

	sess.Step = sess.Step.Next()
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Back retreats one step. Never gated.
func (s *Service) Back(ctx context.Context, id string) (*session.Session, error) {
	sess, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	sess.Step = sess.Step.Prev()
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Abandon discards the session (navigation away).
func (s *Service) Abandon(ctx context.Context, id string) error {
	if _, err := s.GetSession(ctx, id); err != nil {
		return err
	}
	return s.sessions.Delete(ctx, id)
}

type SubmitResult struct {
	Completed bool
	Booking   json.RawMessage
	Message   string
}

// Submit runs the submission pipeline: gate re-check, payload composition,
// endpoint selection by type, POST, and outcome mapping. On failure the
// session stays on step 4 with everything intact so the user can retry.
func (s *Service) Submit(ctx context.Context, id string) (*SubmitResult, error) {
	sess, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if sess.Step != domain.StepReview {
		return nil, &GateError{Step: sess.Step, Message: "Finish the remaining steps before confirming"}
	}
	if sess.Submitting {
		return nil, ErrSubmitInFlight
	}
	if msg := domain.ValidationMessage(sess.Step, &sess.State); msg != "" {
		return nil, &GateError{Step: sess.Step, Message: msg}
	}

	at, err := sess.State.ScheduledAt()
	if err != nil {
		// gating should make this unreachable; early-return instead of failing
		s.log.Warn("submit without date/time", zap.String("session_id", id))
		return &SubmitResult{Completed: false, Message: "Booking is missing its date or time"}, nil
	}

	payload := buildBookingRequest(&sess.State, at)

	sess.Submitting = true
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	record, err := s.calendar.CreateBooking(ctx, sess.State.BookingType, payload, sess.ID)
	if err != nil {
		sess.Submitting = false
		if saveErr := s.sessions.Save(ctx, sess); saveErr != nil {
			s.log.Error("reset submitting flag", zap.String("session_id", id), zap.Error(saveErr))
		}

		msg := msgSubmissionFailed
		var apiErr *calendar.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			msg = apiErr.Message
		}
		s.notifier.Error(ctx, id, msg)
		return nil, &SubmissionError{Message: msg, Err: err}
	}

	s.notifier.Success(ctx, id, msgSubmissionOK)
	s.hook.BookingCompleted(ctx, sess.State.BookingType, record)

	if err := s.sessions.Delete(ctx, id); err != nil {
		s.log.Warn("delete completed session", zap.String("session_id", id), zap.Error(err))
	}

	s.log.Info("booking submitted",
		zap.String("session_id", id),
		zap.String("booking_type", string(sess.State.BookingType)),
		zap.String("scheduled_at", payload.ScheduledAt))
	return &SubmitResult{Completed: true, Booking: record}, nil
}

// buildBookingRequest flattens the intake state into the wire payload and
// attaches the two derived fields.
func buildBookingRequest(st *domain.IntakeState, at time.Time) calendar.BookingRequest {
	titleFor := st.Company
	if strings.TrimSpace(titleFor) == "" {
		titleFor = st.ClientName
	}

	req := calendar.BookingRequest{
		BookingType:  st.BookingType,
		ClientName:   st.ClientName,
		ClientEmail:  st.ClientEmail,
		ClientPhone:  st.ClientPhone,
		Company:      st.Company,
		Industry:     st.Industry,
		TeamSize:     st.TeamSize,
		SelectedDate: st.SelectedDate,
		SelectedTime: st.SelectedTime,
		Duration:     st.Duration,
		TimeZone:     st.TimeZone,
		MeetingType:  st.MeetingType,
		ScheduledAt:  at.Format(time.RFC3339),
		Title:        st.DisplayLabel() + " - " + titleFor,
	}

	if st.Audit != nil {
		req.SpecificAreas = st.Audit.SpecificAreas
		req.CurrentSystems = st.Audit.CurrentSystems
		req.RevenueGoals = st.Audit.RevenueGoals
		req.PainPoints = st.Audit.PainPoints
	}
	if st.Consultation != nil {
		req.ConsultationType = st.Consultation.ConsultationType
		req.Objectives = st.Consultation.Objectives
		req.CurrentSituation = st.Consultation.CurrentSituation
		req.Budget = st.Consultation.Budget
		req.Timeline = st.Consultation.Timeline
		req.SpecificQuestions = st.Consultation.SpecificQuestions
	}
	return req
}

func applyString(src *string, dst *string) {
	if src != nil {
		*dst = *src
	}
}

// normalizeSet trims, drops empties and deduplicates while keeping order.
func normalizeSet(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
