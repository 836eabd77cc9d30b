package controller

import (
	"context"

	"github.com/Freeeeeet/meeting_bot/internal/controller/callbacks"
	"github.com/Freeeeeet/meeting_bot/internal/controller/handlers"
	"github.com/Freeeeeet/meeting_bot/internal/controller/screens"
	"github.com/Freeeeeet/meeting_bot/internal/controller/state"
	"github.com/Freeeeeet/meeting_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	sessionService *service.SessionService,
	screenRegistry *screens.Registry,
	stateManager *state.Manager,
	logger *zap.Logger,
) *BotController {
	// Создаём обработчики команд
	cmdHandlers := handlers.NewHandlers(
		sessionService,
		screenRegistry,
		stateManager,
		logger,
	)

	// Создаём callback handler с зависимостями
	callbackHandler := callbacks.NewHandler(
		sessionService,
		screenRegistry,
		stateManager,
		logger,
	)

	return &BotController{
		bot:             botInstance,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		logger:          logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	// Регистрируем команды
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/login", bot.MatchTypePrefix, c.handlers.HandleLogin)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/logout", bot.MatchTypeExact, c.handlers.HandleLogout)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/date", bot.MatchTypePrefix, c.handlers.HandleDate)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)

	// Команды преподавателя
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/night", bot.MatchTypeExact, c.handlers.HandleNight)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/meetings", bot.MatchTypeExact, c.handlers.HandleMeetings)

	// Команды студента
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/day", bot.MatchTypeExact, c.handlers.HandleDay)

	// Обработчик текстовых сообщений (для диалогов с состояниями)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Главная панель"},
		{Command: "login", Description: "🔑 Вход: /login email пароль"},
		{Command: "date", Description: "📅 Выбрать дату"},
		{Command: "night", Description: "🌙 Слоты на вечер (преподаватель)"},
		{Command: "meetings", Description: "📋 Будущие встречи (преподаватель)"},
		{Command: "day", Description: "🗓 Свободные слоты (студент)"},
		{Command: "cancel", Description: "✖️ Прервать ввод"},
		{Command: "logout", Description: "🚪 Выйти"},
		{Command: "help", Description: "❓ Справка по командам"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота и блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
