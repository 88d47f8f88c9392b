package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/chirchiq/estate-bot/internal/model"
)

// botCommands lists the commands shown in Telegram's command menu, in menu
// order. Descriptions come from the message catalog.
var botCommands = []string{
	"new",
	"myads",
	"profile",
	"payments",
	"subscription",
	"role",
	"roles",
	"language",
	"cancel",
	"help",
}

// Requester is the part of the Telegram API used for bot configuration.
type Requester interface {
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

func commandsFor(lang model.Language) []tgbotapi.BotCommand {
	commands := make([]tgbotapi.BotCommand, len(botCommands))
	for i, name := range botCommands {
		commands[i] = tgbotapi.BotCommand{
			Command:     name,
			Description: lookup(lang, commandKey(name)),
		}
	}
	return commands
}

// RegisterCommands sets the bot's command menu in Telegram: the default
// language for every client plus a translated menu per supported language.
// This should be called once at startup.
func RegisterCommands(tg Requester) {
	configs := []tgbotapi.Chattable{tgbotapi.NewSetMyCommands(commandsFor(model.DefaultLanguage)...)}
	for _, lang := range model.AllLanguages {
		configs = append(configs, tgbotapi.NewSetMyCommandsWithScopeAndLanguage(
			tgbotapi.NewBotCommandScopeDefault(), string(lang), commandsFor(lang)...,
		))
	}

	for _, config := range configs {
		if _, err := tg.Request(config); err != nil {
			log.Error().Err(err).Msg("failed to set bot commands")
			return
		}
	}
	log.Info().Int("count", len(botCommands)).Int("languages", len(model.AllLanguages)).Msg("registered bot commands")
}
