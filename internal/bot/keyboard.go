package bot

import (
	"bot/internal/conversation"
	"bot/internal/i18n"
	"bot/internal/telegram"
)

// Inline menus for the choice states. Callback data carries the option
// value, and button order matches the typed digit shortcuts.

func enhancementKeyboard(locale string) *telegram.InlineKeyboardMarkup {
	return keyboard(locale, []menuButton{
		{i18n.KeyBtnUseEnhanced, conversation.OptionUseEnhanced},
		{i18n.KeyBtnEnhanceAgain, conversation.OptionEnhanceAgain},
		{i18n.KeyBtnUseOriginal, conversation.OptionUseOriginal},
	})
}

func referenceKeyboard(locale string) *telegram.InlineKeyboardMarkup {
	return keyboard(locale, []menuButton{
		{i18n.KeyBtnAttachReference, conversation.OptionAttachReference},
		{i18n.KeyBtnSkipReference, conversation.OptionSkipReference},
	})
}

// retryKeyboard reuses the reference decision options after a failed
// generation, in the same order so typed digits keep their meaning.
// Retrying keeps the attached reference; attaching swaps it for a new
// upload.
func retryKeyboard(locale string) *telegram.InlineKeyboardMarkup {
	return keyboard(locale, []menuButton{
		{i18n.KeyBtnAttachReference, conversation.OptionAttachReference},
		{i18n.KeyBtnRetry, conversation.OptionSkipReference},
	})
}

func iterationKeyboard(locale string) *telegram.InlineKeyboardMarkup {
	return keyboard(locale, []menuButton{
		{i18n.KeyBtnRegenerate, conversation.OptionRegenerate},
		{i18n.KeyBtnEditPrompt, conversation.OptionEditPrompt},
		{i18n.KeyBtnFinish, conversation.OptionFinish},
	})
}

type menuButton struct {
	label  i18n.Key
	option conversation.Option
}

func keyboard(locale string, buttons []menuButton) *telegram.InlineKeyboardMarkup {
	rows := make([][]telegram.InlineKeyboardButton, 0, len(buttons))
	for _, b := range buttons {
		rows = append(rows, []telegram.InlineKeyboardButton{{
			Text:         i18n.T(locale, b.label),
			CallbackData: string(b.option),
		}})
	}
	return &telegram.InlineKeyboardMarkup{InlineKeyboard: rows}
}
