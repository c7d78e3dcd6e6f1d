package service

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"vehicle-repair-service/internal/model"
	"vehicle-repair-service/internal/repository"
)

// ResolveAvailableSlots returns the slots not held on date. Slots are
// compared by identity, so two slots with overlapping hours never collide.
// When date is today in now's location, slots that already started are
// dropped.
func ResolveAvailableSlots(slots []model.AppointmentSlot, booked map[uuid.UUID]struct{}, date, now time.Time) []model.AppointmentSlot {
	out := make([]model.AppointmentSlot, 0, len(slots))
	ny, nm, nd := now.Date()
	dy, dm, dd := date.Date()
	today := ny == dy && nm == dm && nd == dd
	current := float64(now.Hour()) + float64(now.Minute())/60

	for _, slot := range slots {
		if _, taken := booked[slot.ID]; taken {
			continue
		}
		if today && slot.FromTime <= current {
			continue
		}
		out = append(out, slot)
	}
	return out
}

type SlotView struct {
	SlotID   uuid.UUID `json:"slot_id"`
	Title    string    `json:"title"`
	FromTime float64   `json:"from_time"`
	ToTime   float64   `json:"to_time"`
}

type BookingDay struct {
	AppointmentID *uuid.UUID  `json:"appointment_id"`
	Slots         []SlotView  `json:"slots"`
	BookedSlotIDs []uuid.UUID `json:"booked_slot_ids"`
}

type SlotInput struct {
	Title    string
	FromTime float64
	ToTime   float64
}

type AppointmentDayInput struct {
	Name      string
	DayOfWeek string
	Slots     []SlotInput
}

type SlotService struct {
	repos    *repository.Repositories
	location *time.Location
	now      func() time.Time
	log      zerolog.Logger
}

func NewSlotService(repos *repository.Repositories, location *time.Location, log zerolog.Logger) *SlotService {
	if location == nil {
		location = time.UTC
	}
	return &SlotService{repos: repos, location: location, now: time.Now, log: log}
}

// BookingDay lists the free slots for date. A weekday without an
// appointment day yields an empty result.
func (s *SlotService) BookingDay(ctx context.Context, date time.Time) (*BookingDay, error) {
	result := &BookingDay{Slots: []SlotView{}, BookedSlotIDs: []uuid.UUID{}}

	day, err := s.repos.Slots.DayByWeekday(ctx, model.WeekdayName(date.Weekday()))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return result, nil
		}
		return nil, err
	}
	result.AppointmentID = &day.ID

	bookedIDs, err := s.repos.Slots.BookedSlotIDs(ctx, model.NewDate(date))
	if err != nil {
		return nil, err
	}
	booked := make(map[uuid.UUID]struct{}, len(bookedIDs))
	for _, id := range bookedIDs {
		booked[id] = struct{}{}
	}
	result.BookedSlotIDs = append(result.BookedSlotIDs, bookedIDs...)

	for _, slot := range ResolveAvailableSlots(day.Slots, booked, date, s.now().In(s.location)) {
		result.Slots = append(result.Slots, SlotView{
			SlotID:   slot.ID,
			Title:    slot.Title,
			FromTime: slot.FromTime,
			ToTime:   slot.ToTime,
		})
	}
	return result, nil
}

func (s *SlotService) ListDays(ctx context.Context) ([]model.AppointmentDay, error) {
	return s.repos.Slots.ListDays(ctx)
}

func (s *SlotService) CreateDay(ctx context.Context, principal model.Principal, input AppointmentDayInput) (*model.AppointmentDay, error) {
	if !(principal.IsAdmin() || principal.IsManager()) {
		return nil, ErrPermissionDenied
	}
	weekday := strings.ToLower(strings.TrimSpace(input.DayOfWeek))
	if !validWeekday(weekday) {
		return nil, ErrInvalidInput
	}

	day := &model.AppointmentDay{Name: strings.TrimSpace(input.Name), DayOfWeek: weekday}
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := tx.Slots.CreateDay(ctx, day); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrConflict
			}
			return err
		}
		for _, in := range input.Slots {
			slot, err := s.addSlot(ctx, tx, day.ID, in)
			if err != nil {
				return err
			}
			day.Slots = append(day.Slots, *slot)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return day, nil
}

func (s *SlotService) AddSlot(ctx context.Context, principal model.Principal, dayID uuid.UUID, input SlotInput) (*model.AppointmentSlot, error) {
	if !(principal.IsAdmin() || principal.IsManager()) {
		return nil, ErrPermissionDenied
	}
	var slot *model.AppointmentSlot
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		slot, err = s.addSlot(ctx, tx, dayID, input)
		return err
	})
	if err != nil {
		return nil, err
	}
	return slot, nil
}

func (s *SlotService) addSlot(ctx context.Context, tx *repository.Repositories, dayID uuid.UUID, input SlotInput) (*model.AppointmentSlot, error) {
	if err := ValidateSlotTimes(input.FromTime, input.ToTime); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(input.Title)
	from, to := round2(input.FromTime), round2(input.ToTime)

	existing, err := tx.Slots.AllSlots(ctx)
	if err != nil {
		return nil, err
	}
	for _, other := range existing {
		if other.Title == title && round2(other.FromTime) == from && round2(other.ToTime) == to {
			return nil, validationf(
				"Appointment slot '%s' starting time %s to %s is already in use. Please choose a different time or title.",
				title, formatHour(from), formatHour(to))
		}
	}

	slot := &model.AppointmentSlot{AppointmentID: dayID, Title: title, FromTime: input.FromTime, ToTime: input.ToTime}
	if err := tx.Slots.AddSlot(ctx, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

func ValidateSlotTimes(from, to float64) error {
	if from < 0 || from > 24 {
		return validationf("Starting Time must be between 0 and 24.")
	}
	if to < 0 || to > 24 {
		return validationf("Closing Time must be between 0 and 24.")
	}
	if to < from {
		return validationf("Closing Time cannot be less than Starting Time.")
	}
	if to == from {
		return validationf("Starting Time and Closing Time cannot be the same.")
	}
	return nil
}

func validWeekday(name string) bool {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if model.WeekdayName(d) == name {
			return true
		}
	}
	return false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// formatHour prints whole hours with one decimal, so 9 reads "9.0".
func formatHour(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
