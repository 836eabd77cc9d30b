package slotsync

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/meeting_bot/internal/api"
	"github.com/Freeeeeet/meeting_bot/internal/model"
	"go.uber.org/zap"
)

type nightState struct {
	Date  string
	Slots []model.TimeSlot
}

// NightView экран преподавателя: публикация слотов одного сегмента на дату
type NightView struct {
	api     ScheduleAPI
	segment model.Segment
	state   State[nightState]
	gen     Generation
	pending InFlight
	logger  *zap.Logger
}

// NewNightView создаёт экран для сегмента; до Load список пуст
func NewNightView(scheduleAPI ScheduleAPI, segment model.Segment, logger *zap.Logger) *NightView {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NightView{
		api:     scheduleAPI,
		segment: segment,
		logger:  logger,
	}
}

// Segment сегмент экрана
func (v *NightView) Segment() model.Segment {
	return v.segment
}

// Date дата последней успешной загрузки
func (v *NightView) Date() string {
	return v.state.Get().Date
}

// Slots копия видимого списка
func (v *NightView) Slots() []model.TimeSlot {
	return model.CloneSlots(v.state.Get().Slots)
}

// Pending проверяет, ждёт ли слот ответа сервера
func (v *NightView) Pending(label string) bool {
	return v.pending.Busy(label)
}

// Invalidate отбрасывает ответы ещё не завершённых загрузок
func (v *NightView) Invalidate() {
	v.gen.Next()
}

// Load сверяет фиксированный список меток сегмента с тем, что сервер считает открытым.
// При ошибке предыдущий список остаётся как был.
func (v *NightView) Load(ctx context.Context, date string) ([]model.TimeSlot, error) {
	token := v.gen.Next()

	available, err := v.api.AvailableSlots(ctx, date)
	if !v.gen.IsCurrent(token) {
		v.logger.Debug("Discarding stale availability response",
			zap.String("date", date),
			zap.String("segment", v.segment.Name))
		return v.Slots(), ErrStale
	}
	if err != nil {
		v.logger.Error("Failed to load availability",
			zap.String("date", date),
			zap.String("segment", v.segment.Name),
			zap.Error(err))
		return v.Slots(), fmt.Errorf("load availability: %w", err)
	}

	open := make(map[string]bool, len(available))
	for _, s := range available {
		if s.IsAvailable() {
			open[s.TimeSlot] = true
		}
	}

	slots := v.segment.Slots()
	for i := range slots {
		slots[i].Available = open[slots[i].Label]
	}

	v.state.Set(nightState{Date: date, Slots: slots})

	v.logger.Info("Availability loaded",
		zap.String("date", date),
		zap.String("segment", v.segment.Name),
		zap.Int("open", len(open)))

	return model.CloneSlots(slots), nil
}

// Toggle переключает доступность слота. Локальный список меняется только после ответа сервера:
// снятый слот пропадает из списка, открытый отмечается на месте.
func (v *NightView) Toggle(ctx context.Context, label string) error {
	current := v.state.Get()
	if current.Date == "" {
		return ErrNotLoaded
	}
	idx := model.IndexOfSlot(current.Slots, label)
	if idx < 0 {
		return ErrUnknownSlot
	}
	newAvailable := !current.Slots[idx].Available

	err := Mutate(ctx, &v.state, &v.pending, label,
		func(ctx context.Context, snapshot nightState) error {
			return v.api.SetAvailability(ctx, api.SetAvailabilityRequest{
				Date:      snapshot.Date,
				TimeSlot:  label,
				Available: newAvailable,
			})
		},
		func(st nightState) nightState {
			// экран успели перезагрузить на другую дату - правда уже у новой загрузки
			if st.Date != current.Date {
				return st
			}
			i := model.IndexOfSlot(st.Slots, label)
			if i < 0 {
				return st
			}
			slots := model.CloneSlots(st.Slots)
			if newAvailable {
				slots[i].Available = true
			} else {
				slots = append(slots[:i], slots[i+1:]...)
			}
			return nightState{Date: st.Date, Slots: slots}
		},
	)
	if err != nil {
		v.logger.Error("Failed to toggle availability",
			zap.String("date", current.Date),
			zap.String("time_slot", label),
			zap.Bool("available", newAvailable),
			zap.Error(err))
		return err
	}

	v.logger.Info("Availability toggled",
		zap.String("date", current.Date),
		zap.String("time_slot", label),
		zap.Bool("available", newAvailable))
	return nil
}
