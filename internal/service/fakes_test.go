package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"musicschool-api/internal/model"
	"musicschool-api/internal/repository"
	"musicschool-api/pkg/apperr"
)

// In-memory repository fakes. They copy values on the way in and out
// so concurrent test goroutines never share model pointers.

func at(day, hour int) time.Time {
	return time.Date(2026, time.September, day, hour, 0, 0, 0, time.UTC)
}

type fakeSlotRepo struct {
	mu    sync.Mutex
	slots map[uuid.UUID]*model.AvailabilitySlot
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{slots: make(map[uuid.UUID]*model.AvailabilitySlot)}
}

func (f *fakeSlotRepo) add(slot model.AvailabilitySlot) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()

	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}
	f.slots[slot.ID] = &slot
	return slot.ID
}

func (f *fakeSlotRepo) Create(_ context.Context, slot *model.AvailabilitySlot) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	slot.ID = uuid.New()
	slot.CreatedAt = time.Now()
	stored := *slot
	f.slots[slot.ID] = &stored
	return nil
}

func (f *fakeSlotRepo) GetByID(_ context.Context, id uuid.UUID) (*model.AvailabilitySlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	slot, ok := f.slots[id]
	if !ok {
		return nil, nil
	}
	out := *slot
	return &out, nil
}

func (f *fakeSlotRepo) ListFree(_ context.Context, professorID uuid.UUID, from, to time.Time) ([]*model.AvailabilitySlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*model.AvailabilitySlot
	for _, slot := range f.slots {
		if slot.ProfessorID != professorID || slot.Booked {
			continue
		}
		if slot.StartAt.Before(from) || !slot.StartAt.Before(to) {
			continue
		}
		copied := *slot
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

func (f *fakeSlotRepo) HasOverlap(_ context.Context, professorID uuid.UUID, start, end time.Time, excludeID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, slot := range f.slots {
		if slot.ProfessorID != professorID || slot.ID == excludeID {
			continue
		}
		if slot.Overlaps(start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSlotRepo) UpdateWindow(_ context.Context, id uuid.UUID, start, end time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	slot, ok := f.slots[id]
	if !ok || slot.Booked {
		return fmt.Errorf("update slot window: slot missing or booked")
	}
	slot.StartAt = start
	slot.EndAt = end
	return nil
}

func (f *fakeSlotRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	slot, ok := f.slots[id]
	if !ok || slot.Booked {
		return fmt.Errorf("delete slot: slot missing or booked")
	}
	delete(f.slots, id)
	return nil
}

func (f *fakeSlotRepo) Release(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if slot, ok := f.slots[id]; ok && slot.Booked {
		slot.Booked = false
		slot.BookedByStudentID = nil
	}
	return nil
}

// claim mirrors the conditional UPDATE: it succeeds only while the
// slot exists and is still free.
func (f *fakeSlotRepo) claim(id, studentID uuid.UUID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	slot, ok := f.slots[id]
	if !ok || slot.Booked {
		return false
	}
	slot.Booked = true
	slot.BookedByStudentID = &studentID
	return true
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	slots    *fakeSlotRepo
	sessions map[uuid.UUID]*model.Session
}

func newFakeSessionRepo(slots *fakeSlotRepo) *fakeSessionRepo {
	return &fakeSessionRepo{slots: slots, sessions: make(map[uuid.UUID]*model.Session)}
}

func (f *fakeSessionRepo) add(session model.Session) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()

	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	f.sessions[session.ID] = &session
	return session.ID
}

func (f *fakeSessionRepo) CreateWithClaim(_ context.Context, session *model.Session) error {
	if session.SlotID == nil {
		return fmt.Errorf("create session: slot id is not set")
	}

	if !f.slots.claim(*session.SlotID, session.StudentID) {
		return fmt.Errorf("claim slot: already booked: %w", apperr.ErrConflict)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	session.ID = uuid.New()
	session.BookedAt = time.Now()
	stored := *session
	f.sessions[session.ID] = &stored
	return nil
}

func (f *fakeSessionRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	session, ok := f.sessions[id]
	if !ok {
		return nil, nil
	}
	out := *session
	return &out, nil
}

func (f *fakeSessionRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to model.SessionStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	session, ok := f.sessions[id]
	if !ok || session.Status != from {
		return fmt.Errorf("update session status: not in status %q: %w", from, apperr.ErrConflict)
	}
	session.Status = to
	return nil
}

func (f *fakeSessionRepo) CountScheduled(_ context.Context, studentID uuid.UUID, from, to time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var count int64
	for _, session := range f.sessions {
		if session.StudentID != studentID || session.Status != model.SessionStatusScheduled {
			continue
		}
		if session.SessionAt.Before(from) || session.SessionAt.After(to) {
			continue
		}
		count++
	}
	return count, nil
}

func (f *fakeSessionRepo) listUpcoming(match func(*model.Session) bool, after time.Time) []*model.Session {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*model.Session
	for _, session := range f.sessions {
		if !match(session) || !session.SessionAt.After(after) {
			continue
		}
		copied := *session
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SessionAt.Before(out[j].SessionAt) })
	return out
}

func (f *fakeSessionRepo) ListUpcomingByStudent(_ context.Context, studentID uuid.UUID, after time.Time) ([]*model.Session, error) {
	return f.listUpcoming(func(s *model.Session) bool { return s.StudentID == studentID }, after), nil
}

func (f *fakeSessionRepo) ListUpcomingByProfessor(_ context.Context, professorID uuid.UUID, after time.Time) ([]*model.Session, error) {
	return f.listUpcoming(func(s *model.Session) bool { return s.ProfessorID == professorID }, after), nil
}

func (f *fakeSessionRepo) LatestCompleted(_ context.Context, studentID, professorID uuid.UUID) (*model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var latest *model.Session
	for _, session := range f.sessions {
		if session.StudentID != studentID || session.ProfessorID != professorID {
			continue
		}
		if session.Status != model.SessionStatusCompleted {
			continue
		}
		if latest == nil || session.SessionAt.After(latest.SessionAt) {
			latest = session
		}
	}
	if latest == nil {
		return nil, nil
	}
	out := *latest
	return &out, nil
}

type fakeInstrumentRepo struct {
	mu          sync.Mutex
	instruments map[uuid.UUID]*model.Instrument
}

func newFakeInstrumentRepo() *fakeInstrumentRepo {
	return &fakeInstrumentRepo{instruments: make(map[uuid.UUID]*model.Instrument)}
}

func (f *fakeInstrumentRepo) add(name string) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := uuid.New()
	f.instruments[id] = &model.Instrument{ID: id, Name: name}
	return id
}

func (f *fakeInstrumentRepo) Create(_ context.Context, instrument *model.Instrument) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.instruments {
		if existing.Name == instrument.Name {
			return fmt.Errorf("create instrument: name taken: %w", apperr.ErrConflict)
		}
	}

	instrument.ID = uuid.New()
	instrument.CreatedAt = time.Now()
	stored := *instrument
	f.instruments[instrument.ID] = &stored
	return nil
}

func (f *fakeInstrumentRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Instrument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	instrument, ok := f.instruments[id]
	if !ok {
		return nil, nil
	}
	out := *instrument
	return &out, nil
}

func (f *fakeInstrumentRepo) List(_ context.Context) ([]*model.Instrument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*model.Instrument
	for _, instrument := range f.instruments {
		copied := *instrument
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeProfessorRepo struct {
	mu         sync.Mutex
	professors map[uuid.UUID]*model.Professor
	taught     map[uuid.UUID]map[uuid.UUID]bool
	catalog    *fakeInstrumentRepo
	reviews    *fakeReviewRepo
}

func newFakeProfessorRepo(catalog *fakeInstrumentRepo, reviews *fakeReviewRepo) *fakeProfessorRepo {
	return &fakeProfessorRepo{
		professors: make(map[uuid.UUID]*model.Professor),
		taught:     make(map[uuid.UUID]map[uuid.UUID]bool),
		catalog:    catalog,
		reviews:    reviews,
	}
}

func (f *fakeProfessorRepo) add(instrumentIDs ...uuid.UUID) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := uuid.New()
	f.professors[id] = &model.Professor{ID: id}
	f.taught[id] = make(map[uuid.UUID]bool)
	for _, instrumentID := range instrumentIDs {
		f.taught[id][instrumentID] = true
	}
	return id
}

func (f *fakeProfessorRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Professor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	professor, ok := f.professors[id]
	if !ok {
		return nil, nil
	}
	out := *professor
	return &out, nil
}

func (f *fakeProfessorRepo) List(_ context.Context) ([]*model.Professor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*model.Professor
	for _, professor := range f.professors {
		copied := *professor
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (f *fakeProfessorRepo) Teaches(_ context.Context, professorID, instrumentID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.taught[professorID][instrumentID], nil
}

func (f *fakeProfessorRepo) ListInstruments(ctx context.Context, professorID uuid.UUID) ([]*model.Instrument, error) {
	f.mu.Lock()
	ids := make([]uuid.UUID, 0, len(f.taught[professorID]))
	for id := range f.taught[professorID] {
		ids = append(ids, id)
	}
	f.mu.Unlock()

	var out []*model.Instrument
	for _, id := range ids {
		instrument, err := f.catalog.GetByID(ctx, id)
		if err != nil || instrument == nil {
			continue
		}
		out = append(out, instrument)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeProfessorRepo) UpdateProfile(_ context.Context, professor *model.Professor) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored, ok := f.professors[professor.ID]
	if !ok {
		return fmt.Errorf("update professor profile: professor not found")
	}
	stored.Bio = professor.Bio
	stored.HourlyRate = professor.HourlyRate
	return nil
}

func (f *fakeProfessorRepo) SetInstruments(_ context.Context, professorID uuid.UUID, instrumentIDs []uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	taught := make(map[uuid.UUID]bool, len(instrumentIDs))
	for _, id := range instrumentIDs {
		taught[id] = true
	}
	f.taught[professorID] = taught
	return nil
}

func (f *fakeProfessorRepo) RecalculateRating(ctx context.Context, professorID uuid.UUID) (float64, error) {
	reviews, err := f.reviews.ListByProfessor(ctx, professorID)
	if err != nil {
		return 0, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	professor, ok := f.professors[professorID]
	if !ok {
		return 0, fmt.Errorf("recalculate professor rating: professor not found")
	}

	if len(reviews) == 0 {
		professor.AverageRating = 0
		return 0, nil
	}

	var sum int
	for _, review := range reviews {
		sum += review.Rating
	}
	professor.AverageRating = float64(sum) / float64(len(reviews))
	return professor.AverageRating, nil
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	reviews []*model.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{}
}

func (f *fakeReviewRepo) Create(_ context.Context, review *model.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.reviews {
		if existing.StudentID == review.StudentID && existing.ProfessorID == review.ProfessorID {
			return fmt.Errorf("create review: pair already reviewed: %w", apperr.ErrConflict)
		}
	}

	review.ID = uuid.New()
	review.CreatedAt = time.Now()
	stored := *review
	f.reviews = append(f.reviews, &stored)
	return nil
}

func (f *fakeReviewRepo) Exists(_ context.Context, studentID, professorID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, review := range f.reviews {
		if review.StudentID == studentID && review.ProfessorID == professorID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReviewRepo) ListByProfessor(_ context.Context, professorID uuid.UUID) ([]*model.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*model.Review
	for _, review := range f.reviews {
		if review.ProfessorID == professorID {
			copied := *review
			out = append(out, &copied)
		}
	}
	return out, nil
}

var (
	_ repository.SlotRepository       = (*fakeSlotRepo)(nil)
	_ repository.SessionRepository    = (*fakeSessionRepo)(nil)
	_ repository.InstrumentRepository = (*fakeInstrumentRepo)(nil)
	_ repository.ProfessorRepository  = (*fakeProfessorRepo)(nil)
	_ repository.ReviewRepository     = (*fakeReviewRepo)(nil)
)
