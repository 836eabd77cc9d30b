package common

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/meeting_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/meeting_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/meeting_bot/internal/model"
	"github.com/Freeeeeet/meeting_bot/internal/slotsync"
	"github.com/go-telegram/bot/models"
)

var segmentIcons = map[string]string{
	model.SegmentMorning:   "🌅",
	model.SegmentAfternoon: "☀️",
	model.SegmentEvening:   "🌙",
}

// BuildLoginScreen подсказка для пользователя без сессии
func BuildLoginScreen() string {
	return "👋 Добро пожаловать!\n\n" +
		"Чтобы пользоваться ботом, войдите своей школьной учётной записью:\n" +
		"<code>/login email пароль</code>\n\n" +
		"Справка: /help"
}

// BuildHelpScreen список команд
func BuildHelpScreen() string {
	return "❓ <b>Справка</b>\n\n" +
		"/start - главная панель\n" +
		"/login email пароль - вход\n" +
		"/logout - выход\n" +
		"/date [ГГГГ-ММ-ДД] - выбрать дату\n" +
		"/cancel - прервать ввод текста\n\n" +
		"<b>Преподаватель</b>\n" +
		"/night - слоты на вечер выбранной даты\n" +
		"/meetings - будущие встречи\n\n" +
		"<b>Студент</b>\n" +
		"/day - свободные слоты выбранной даты"
}

// BuildPanelScreen главная панель пользователя
func BuildPanelScreen(session *model.Session, date string) (string, *models.InlineKeyboardMarkup) {
	role := "🎒 Студент"
	if session.Professor {
		role = "🎓 Преподаватель"
	}

	text := fmt.Sprintf(
		"👋 <b>%s</b>\n%s\n\n📅 Дата: %s",
		html.EscapeString(displayName(session)),
		role,
		formatting.FormatDate(date),
	)

	b := keyboard.NewBuilder()
	if session.Professor {
		b.Row(keyboard.Button("🌙 Слоты на вечер", CbNight+date))
		b.Row(keyboard.Button("📋 Встречи", CbMeetings))
	} else {
		b.Row(keyboard.Button("🗓 Свободные слоты", CbDay+date))
	}
	b.Row(keyboard.Button("📅 Сменить дату", CbCalendar+date[:7]))

	return text, b.Build()
}

func displayName(session *model.Session) string {
	if session.Name != "" {
		return session.Name
	}
	return session.Email
}

// BuildCalendarScreen календарь месяца; неделя начинается с понедельника
func BuildCalendarScreen(month time.Time, selected, today string) (string, *models.InlineKeyboardMarkup) {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	prev := first.AddDate(0, -1, 0).Format("2006-01")
	next := first.AddDate(0, 1, 0).Format("2006-01")

	text := fmt.Sprintf("📅 <b>Выберите дату</b>\n\nСейчас выбрано: %s", formatting.FormatDate(selected))

	b := keyboard.NewBuilder()
	b.Row(keyboard.MonthPagination(CbCalendar, formatting.FormatMonth(first), prev, next)...)

	header := make([]models.InlineKeyboardButton, 0, 7)
	for _, wd := range []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday} {
		header = append(header, keyboard.NoopButton(formatting.GetWeekdayShort(wd)))
	}
	b.Row(header...)

	// пустые клетки до первого дня месяца
	offset := (int(first.Weekday()) + 6) % 7
	cells := make([]models.InlineKeyboardButton, 0, 42)
	for i := 0; i < offset; i++ {
		cells = append(cells, keyboard.NoopButton(" "))
	}
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		iso := model.FormatISODate(d)
		label := strconv.Itoa(d.Day())
		switch iso {
		case selected:
			label = "·" + label + "·"
		case today:
			label += "*"
		}
		cells = append(cells, keyboard.Button(label, CbPickDate+iso))
	}
	for len(cells)%7 != 0 {
		cells = append(cells, keyboard.NoopButton(" "))
	}
	b.Grid(7, cells...)

	b.AddBackToPanelButton()
	return text, b.Build()
}

// BuildNightScreen экран публикации слотов сегмента.
// Слоты с незавершённым запросом показываются неактивными.
func BuildNightScreen(segment model.Segment, date string, slots []model.TimeSlot, pending func(label string) bool) (string, *models.InlineKeyboardMarkup) {
	open := 0
	for _, s := range slots {
		if s.Available {
			open++
		}
	}

	text := fmt.Sprintf(
		"%s <b>%s</b> • %s\n\nОткрыто для записи: %d %s\n\n"+
			"Нажмите на слот, чтобы открыть или закрыть его.",
		segmentIcons[segment.Name],
		segment.Title,
		formatting.FormatDate(date),
		open,
		formatting.PluralizeSlots(open),
	)

	b := keyboard.NewBuilder()
	buttons := make([]models.InlineKeyboardButton, 0, len(slots))
	for _, s := range slots {
		idx := indexOfLabel(segment.Labels, s.Label)
		switch {
		case idx < 0:
			continue
		case pending != nil && pending(s.Label):
			buttons = append(buttons, keyboard.NoopButton("⏳ "+s.Label))
		case s.Available:
			buttons = append(buttons, keyboard.Button("✅ "+s.Label, fmt.Sprintf("%s%s:%d", CbToggleSlot, segment.Name, idx)))
		default:
			buttons = append(buttons, keyboard.Button("⬜ "+s.Label, fmt.Sprintf("%s%s:%d", CbToggleSlot, segment.Name, idx)))
		}
	}
	b.Grid(2, buttons...)

	segments := make([]models.InlineKeyboardButton, 0, 3)
	for _, seg := range model.Segments() {
		label := segmentIcons[seg.Name] + " " + seg.Title
		if seg.Name == segment.Name {
			label = "🔄 " + seg.Title
		}
		segments = append(segments, keyboard.Button(label, CbSegment+seg.Name))
	}
	b.Row(segments...)
	b.AddBackToPanelButton()

	return text, b.Build()
}

func indexOfLabel(labels []string, label string) int {
	for i, l := range labels {
		if l == label {
			return i
		}
	}
	return -1
}

// BuildDayScreen экран студента: слоты дня и форма записи
func BuildDayScreen(form slotsync.BookingForm, submitting bool) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🗓 <b>Слоты на %s</b>\n\n", formatting.FormatDate(form.Date))

	if len(form.Slots) == 0 {
		sb.WriteString("На этот день свободных слотов нет.")
	} else if form.Selected == "" {
		sb.WriteString("Выберите свободный слот 🟢")
	} else {
		reason := "<i>не указана</i>"
		if strings.TrimSpace(form.Reason) != "" {
			reason = html.EscapeString(form.Reason)
		}
		fmt.Fprintf(&sb, "Выбран слот: <b>%s</b>\nПричина: %s\n\n", form.Selected, reason)
		if form.ReasonInvalid {
			sb.WriteString("⚠️ Укажите причину встречи\n\n")
		}
		sb.WriteString("✏️ Напишите причину встречи сообщением.")
	}

	b := keyboard.NewBuilder()
	buttons := make([]models.InlineKeyboardButton, 0, len(form.Slots))
	for i, s := range form.Slots {
		switch {
		case !s.Available:
			buttons = append(buttons, keyboard.NoopButton("🔴 "+s.Label))
		case s.Label == form.Selected:
			buttons = append(buttons, keyboard.Button("✅ "+s.Label, CbSelectSlot+strconv.Itoa(i)))
		default:
			buttons = append(buttons, keyboard.Button("🟢 "+s.Label, CbSelectSlot+strconv.Itoa(i)))
		}
	}
	b.Grid(2, buttons...)

	if form.Selected != "" {
		if submitting {
			b.Row(keyboard.NoopButton("⏳ Отправка..."))
		} else {
			b.Row(keyboard.Button("📝 Записаться", CbBook))
		}
	}
	b.AddBackToPanelButton()

	return sb.String(), b.Build()
}

// BuildBookingSuccessScreen подтверждение записи
func BuildBookingSuccessScreen(m *model.Meeting) (string, *models.InlineKeyboardMarkup) {
	text := fmt.Sprintf(
		"✅ <b>Вы записаны!</b>\n\n📅 %s\n🕒 %s\n💬 %s",
		formatting.FormatDate(m.Date),
		m.TimeSlot,
		html.EscapeString(m.Reason),
	)
	return text, keyboard.NewBuilder().AddBackToPanelButton().Build()
}

// BuildMeetingsScreen список будущих встреч с режимом подтверждения отмены
func BuildMeetingsScreen(st slotsync.MeetingsState, page int, pending func(id string) bool) (string, *models.InlineKeyboardMarkup) {
	total := len(st.Meetings)
	pages := (total + MeetingsPerPage - 1) / MeetingsPerPage
	if page >= pages {
		page = pages - 1
	}
	if page < 0 {
		page = 0
	}

	var sb strings.Builder
	b := keyboard.NewBuilder()

	if total == 0 {
		sb.WriteString("📋 <b>Будущие встречи</b>\n\nЗапланированных встреч нет.")
		b.Row(keyboard.Button("🔄 Обновить", CbMeetings))
		b.AddBackToPanelButton()
		return sb.String(), b.Build()
	}

	fmt.Fprintf(&sb, "📋 <b>Будущие встречи</b>: %d %s\n", total, formatting.PluralizeMeetings(total))

	start := page * MeetingsPerPage
	end := start + MeetingsPerPage
	if end > total {
		end = total
	}
	for _, m := range st.Meetings[start:end] {
		fmt.Fprintf(&sb, "\n📅 %s • %s\n💬 %s\n", formatting.FormatShortDate(m.Date), m.TimeSlot, html.EscapeString(m.Reason))

		label := fmt.Sprintf("%s %s", formatting.FormatShortDate(m.Date), m.TimeSlot)
		switch {
		case pending != nil && pending(m.ID):
			b.Row(keyboard.NoopButton("⏳ Отмена " + label))
		case m.ID == st.Canceling:
			b.Row(keyboard.NoopButton("✖️ " + label))
		default:
			b.Row(keyboard.Button("❌ "+label, CbCancelMeeting+m.ID))
		}
	}
	b.AddPagination(CbMeetingsPage, page, pages)

	if st.Canceling != "" {
		sb.WriteString("\n━━━━━━━━━━\n")
		if m, ok := findMeeting(st.Meetings, st.Canceling); ok {
			fmt.Fprintf(&sb, "Отмена встречи <b>%s • %s</b>\n", formatting.FormatShortDate(m.Date), m.TimeSlot)
		}
		if strings.TrimSpace(st.CancelReason) == "" {
			sb.WriteString("✏️ Напишите причину отмены сообщением.")
			b.Row(keyboard.CancelButton(CbCancelAbort))
		} else {
			fmt.Fprintf(&sb, "Причина: %s", html.EscapeString(st.CancelReason))
			b.Row(keyboard.ConfirmCancelButtons(CbCancelConfirm, CbCancelAbort)...)
		}
	} else {
		b.Row(keyboard.Button("🔄 Обновить", CbMeetings))
	}
	b.AddBackToPanelButton()

	return sb.String(), b.Build()
}

// PageOfMeeting страница списка, на которой находится встреча
func PageOfMeeting(meetings []model.Meeting, id string) int {
	for i, m := range meetings {
		if m.ID == id {
			return i / MeetingsPerPage
		}
	}
	return 0
}

func findMeeting(meetings []model.Meeting, id string) (model.Meeting, bool) {
	for _, m := range meetings {
		if m.ID == id {
			return m, true
		}
	}
	return model.Meeting{}, false
}
