package slotsync

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Freeeeeet/meeting_bot/internal/api"
	"github.com/Freeeeeet/meeting_bot/internal/model"
	"go.uber.org/zap"
)

// BookingForm состояние формы записи студента
type BookingForm struct {
	Date          string
	Slots         []model.TimeSlot
	Selected      string
	Reason        string
	ReasonInvalid bool
}

// DayView экран студента: слоты дня и форма записи
type DayView struct {
	api     MeetingAPI
	sched   ScheduleAPI
	state   State[BookingForm]
	gen     Generation
	pending InFlight
	logger  *zap.Logger
}

// NewDayView создаёт экран записи
func NewDayView(scheduleAPI ScheduleAPI, meetingAPI MeetingAPI, logger *zap.Logger) *DayView {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DayView{
		api:    meetingAPI,
		sched:  scheduleAPI,
		logger: logger,
	}
}

// Form копия текущего состояния формы
func (v *DayView) Form() BookingForm {
	f := v.state.Get()
	f.Slots = model.CloneSlots(f.Slots)
	return f
}

// Invalidate отбрасывает ответы ещё не завершённых загрузок
func (v *DayView) Invalidate() {
	v.gen.Next()
}

// Submitting проверяет, отправляется ли сейчас запись
func (v *DayView) Submitting() bool {
	f := v.state.Get()
	return f.Selected != "" && v.pending.Busy(bookingKey(f.Date, f.Selected))
}

// Load загружает все слоты дня и сортирует их по метке.
// Выбор сохраняется только при перезагрузке той же даты.
func (v *DayView) Load(ctx context.Context, date string) ([]model.TimeSlot, error) {
	token := v.gen.Next()

	available, err := v.sched.AvailableSlots(ctx, date)
	if !v.gen.IsCurrent(token) {
		return v.Form().Slots, ErrStale
	}
	if err != nil {
		v.logger.Error("Failed to load day slots",
			zap.String("date", date),
			zap.Error(err))
		return v.Form().Slots, fmt.Errorf("load day slots: %w", err)
	}

	slots := make([]model.TimeSlot, 0, len(available))
	for _, s := range available {
		slots = append(slots, model.TimeSlot{Label: s.TimeSlot, Available: s.IsAvailable()})
	}
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].Label < slots[j].Label })

	v.state.Update(func(f BookingForm) BookingForm {
		next := BookingForm{Date: date, Slots: slots}
		if f.Date == date && f.Selected != "" {
			if i := model.IndexOfSlot(slots, f.Selected); i >= 0 && slots[i].Available {
				next.Selected = f.Selected
				next.Reason = f.Reason
				next.ReasonInvalid = f.ReasonInvalid
			}
		}
		return next
	})

	v.logger.Info("Day slots loaded",
		zap.String("date", date),
		zap.Int("count", len(slots)))

	return model.CloneSlots(slots), nil
}

// Select переключает единственный выбранный слот; любой смене выбора сопутствует очистка причины
func (v *DayView) Select(label string) error {
	var err error
	v.state.Update(func(f BookingForm) BookingForm {
		i := model.IndexOfSlot(f.Slots, label)
		if i < 0 {
			err = ErrUnknownSlot
			return f
		}
		if !f.Slots[i].Available {
			err = ErrSlotUnavailable
			return f
		}
		if f.Selected == label {
			f.Selected = ""
		} else {
			f.Selected = label
		}
		f.Reason = ""
		f.ReasonInvalid = false
		return f
	})
	return err
}

// SetReason запоминает введённую причину встречи
func (v *DayView) SetReason(text string) {
	v.state.Update(func(f BookingForm) BookingForm {
		f.Reason = text
		return f
	})
}

// FocusReason снимает флаг ошибки при начале ввода причины
func (v *DayView) FocusReason() {
	v.state.Update(func(f BookingForm) BookingForm {
		f.ReasonInvalid = false
		return f
	})
}

// Book отправляет запись на выбранный слот.
// Пустая причина помечает форму и не доходит до сети; при ошибке сервера форма остаётся заполненной.
func (v *DayView) Book(ctx context.Context, studentID string) (*model.Meeting, error) {
	var verr error
	v.state.Update(func(f BookingForm) BookingForm {
		switch {
		case f.Selected == "":
			verr = ErrNoSlotSelected
		case strings.TrimSpace(f.Reason) == "":
			verr = ErrReasonRequired
			f.ReasonInvalid = true
		default:
			f.ReasonInvalid = false
		}
		return f
	})
	if verr != nil {
		return nil, verr
	}

	form := v.state.Get()
	var created *model.Meeting
	err := Mutate(ctx, &v.state, &v.pending, bookingKey(form.Date, form.Selected),
		func(ctx context.Context, snapshot BookingForm) error {
			m, err := v.api.CreateMeeting(ctx, api.CreateMeetingRequest{
				Date:     snapshot.Date,
				TimeSlot: snapshot.Selected,
				Reason:   snapshot.Reason,
				UserID:   studentID,
			})
			if err != nil {
				return err
			}
			// API может ответить пустым подтверждением
			if m == nil {
				m = &model.Meeting{}
			}
			if m.Date == "" {
				m.Date, m.TimeSlot, m.Reason, m.StudentID = snapshot.Date, snapshot.Selected, snapshot.Reason, studentID
			}
			created = m
			return nil
		},
		func(f BookingForm) BookingForm {
			// запись завершена; исчезновение слота покажет следующая загрузка
			f.Selected = ""
			f.Reason = ""
			f.ReasonInvalid = false
			return f
		},
	)
	if err != nil {
		v.logger.Error("Failed to book meeting",
			zap.String("date", form.Date),
			zap.String("time_slot", form.Selected),
			zap.String("student_id", studentID),
			zap.Error(err))
		return nil, err
	}

	v.logger.Info("Meeting booked",
		zap.String("date", form.Date),
		zap.String("time_slot", form.Selected),
		zap.String("student_id", studentID))
	return created, nil
}

func bookingKey(date, label string) string {
	return date + "|" + label
}
