// Package bot wires Telegram updates into the conversation state machine
// and executes the actions the machine emits: prompts, menus, upstream
// enhancement and generation calls, and result delivery.
package bot

import (
	"context"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"bot/internal/conversation"
	"bot/internal/i18n"
	"bot/internal/infra"
	"bot/internal/leonardo"
	"bot/internal/storage"
	"bot/internal/telegram"

	"github.com/google/uuid"
)

const (
	defaultEnhanceTimeout  = 15 * time.Second
	defaultGenerateTimeout = 90 * time.Second
)

// Messenger is the slice of the Telegram client the controller needs.
type Messenger interface {
	SendMessage(ctx context.Context, req telegram.SendMessageRequest) (*telegram.Message, error)
	SendPhoto(ctx context.Context, req telegram.SendPhotoRequest) (*telegram.Message, error)
	SendChatAction(ctx context.Context, chatID int64, action string) error
	AnswerCallbackQuery(ctx context.Context, callbackID, text string) error
	EditMessageReplyMarkup(ctx context.Context, chatID int64, messageID int, markup *telegram.InlineKeyboardMarkup) error
	GetFile(ctx context.Context, fileID string) (*telegram.File, error)
	DownloadFile(ctx context.Context, filePath string) ([]byte, error)
}

// Generator is the slice of the image API client the controller needs.
type Generator interface {
	ImprovePrompt(ctx context.Context, prompt string) (string, error)
	Generate(ctx context.Context, req leonardo.GenerateRequest) (*leonardo.GeneratedImage, error)
}

var (
	_ Messenger = (*telegram.Client)(nil)
	_ Generator = (*leonardo.Client)(nil)
)

// Options configures a Controller.
type Options struct {
	Messenger Messenger
	Generator Generator
	Sessions  *conversation.Store
	Archiver  *storage.Archiver
	Logger    infra.Logger

	DefaultLocale   string
	EnhanceTimeout  time.Duration
	GenerateTimeout time.Duration
	// GenerateRetries is the number of extra generation attempts after an
	// upstream failure. Zero means a single attempt.
	GenerateRetries int
}

// Controller drives one dialogue per user. Each update is classified into
// an event, run through the transition table under the session lock, and
// the resulting action is executed before the lock is released. Updates
// that arrive while the lock is held get a busy notice instead.
type Controller struct {
	tg       Messenger
	gen      Generator
	sessions *conversation.Store
	archiver *storage.Archiver
	logger   infra.Logger

	defaultLocale   string
	enhanceTimeout  time.Duration
	generateTimeout time.Duration
	generateRetries int

	startedAt       time.Time
	updatesSeen     atomic.Int64
	generationsOK   atomic.Int64
	generationsFail atomic.Int64
}

// New builds a Controller, applying defaults for unset options.
func New(opts Options) *Controller {
	c := &Controller{
		tg:              opts.Messenger,
		gen:             opts.Generator,
		sessions:        opts.Sessions,
		archiver:        opts.Archiver,
		logger:          opts.Logger,
		defaultLocale:   opts.DefaultLocale,
		enhanceTimeout:  opts.EnhanceTimeout,
		generateTimeout: opts.GenerateTimeout,
		generateRetries: opts.GenerateRetries,
		startedAt:       time.Now(),
	}
	if c.defaultLocale == "" {
		c.defaultLocale = "en"
	}
	if c.enhanceTimeout <= 0 {
		c.enhanceTimeout = defaultEnhanceTimeout
	}
	if c.generateTimeout <= 0 {
		c.generateTimeout = defaultGenerateTimeout
	}
	if c.generateRetries < 0 {
		c.generateRetries = 0
	}
	return c
}

// Status is an operational snapshot served by the status endpoint.
type Status struct {
	UptimeSeconds     int64          `json:"uptime_seconds"`
	Sessions          int            `json:"sessions"`
	SessionStates     map[string]int `json:"session_states"`
	UpdatesSeen       int64          `json:"updates_seen"`
	GenerationsOK     int64          `json:"generations_ok"`
	GenerationsFailed int64          `json:"generations_failed"`
}

// Status reports uptime, session occupancy and generation counters.
func (c *Controller) Status() Status {
	return Status{
		UptimeSeconds:     int64(time.Since(c.startedAt).Seconds()),
		Sessions:          c.sessions.Len(),
		SessionStates:     c.sessions.StateCounts(),
		UpdatesSeen:       c.updatesSeen.Load(),
		GenerationsOK:     c.generationsOK.Load(),
		GenerationsFailed: c.generationsFail.Load(),
	}
}

// HandleUpdate implements telegram.UpdateHandler.
func (c *Controller) HandleUpdate(ctx context.Context, upd telegram.Update) {
	c.updatesSeen.Add(1)

	switch {
	case upd.Message != nil:
		c.handleMessage(ctx, upd.Message)
	case upd.CallbackQuery != nil:
		c.handleCallback(ctx, upd.CallbackQuery)
	default:
		c.logger.Debug().Int64("update_id", upd.UpdateID).Msg("update carries no message or callback")
	}
}

func (c *Controller) handleMessage(ctx context.Context, msg *telegram.Message) {
	if msg.From == nil || msg.From.IsBot {
		return
	}

	sess := c.sessions.GetOrCreate(msg.From.ID, msg.Chat.ID)
	if !sess.TryLock() {
		c.send(ctx, msg.Chat.ID, i18n.T(c.locale(msg.From.LanguageCode), i18n.KeyBusy))
		return
	}
	defer sess.Unlock()
	c.ensureLocale(sess, msg.From.LanguageCode)

	switch {
	case strings.HasPrefix(msg.Text, "/"):
		c.handleCommand(ctx, sess, msg.Text)
	case len(msg.Photo) > 0:
		c.handlePhoto(ctx, sess, msg)
	case msg.Document != nil:
		c.handleDocument(ctx, sess, msg.Document)
	case msg.Text != "":
		c.handleText(ctx, sess, msg.Text)
	default:
		// Stickers, voice notes, empty texts: restate what we need.
		c.reprompt(ctx, sess)
	}
}

func (c *Controller) handleCommand(ctx context.Context, sess *conversation.Session, text string) {
	cmd := strings.ToLower(strings.Fields(text)[0])
	// Group chats address commands as /start@botname.
	if i := strings.Index(cmd, "@"); i > 0 {
		cmd = cmd[:i]
	}

	switch cmd {
	case "/start":
		c.apply(ctx, sess, conversation.Start{})
	case "/cancel":
		c.apply(ctx, sess, conversation.Cancel{})
	default:
		c.reprompt(ctx, sess)
	}
}

func (c *Controller) handleText(ctx context.Context, sess *conversation.Session, text string) {
	text = strings.TrimSpace(text)

	// A typed number in a menu state counts as pressing that button.
	if opt, ok := menuShortcut(sess.State, text); ok {
		c.apply(ctx, sess, conversation.Selection{Option: opt})
		return
	}

	// Bounce unusable descriptions here so the dialogue stays in place and
	// no upstream call is wasted on input that cannot succeed.
	if sess.State == conversation.StateAwaitingPrompt {
		if text == "" {
			c.send(ctx, sess.ChatID, i18n.T(sess.Locale, i18n.KeyPromptEmpty))
			return
		}
		if n := utf8.RuneCountInString(text); n > leonardo.MaxImprovePromptLen {
			c.send(ctx, sess.ChatID, i18n.Tf(sess.Locale, i18n.KeyPromptTooLong, n, leonardo.MaxImprovePromptLen))
			return
		}
	}

	c.apply(ctx, sess, conversation.TextInput{Content: text})
}

func (c *Controller) handlePhoto(ctx context.Context, sess *conversation.Session, msg *telegram.Message) {
	if sess.State != conversation.StateAwaitingReferenceUpload {
		c.reprompt(ctx, sess)
		return
	}

	size := telegram.LargestPhoto(msg.Photo)
	if size == nil {
		c.send(ctx, sess.ChatID, i18n.T(sess.Locale, i18n.KeyReferenceInvalid))
		return
	}
	if size.FileSize > leonardo.MaxReferenceSize {
		c.send(ctx, sess.ChatID, i18n.T(sess.Locale, i18n.KeyReferenceTooLarge))
		return
	}

	c.apply(ctx, sess, conversation.PhotoInput{Reference: conversation.Reference{
		FileID:       size.FileID,
		FileUniqueID: size.FileUniqueID,
		Width:        size.Width,
		Height:       size.Height,
		FileSize:     size.FileSize,
		// Telegram re-encodes compressed photos as JPEG.
		MIME: "image/jpeg",
	}})
}

// handleDocument accepts uncompressed image uploads as references. Anything
// that is not an image we can forward upstream is refused in place.
func (c *Controller) handleDocument(ctx context.Context, sess *conversation.Session, doc *telegram.Document) {
	if sess.State != conversation.StateAwaitingReferenceUpload {
		c.reprompt(ctx, sess)
		return
	}

	if !leonardo.SupportedReferenceMIME(doc.MIMEType) {
		c.send(ctx, sess.ChatID, i18n.T(sess.Locale, i18n.KeyReferenceInvalid))
		return
	}
	if doc.FileSize > leonardo.MaxReferenceSize {
		c.send(ctx, sess.ChatID, i18n.T(sess.Locale, i18n.KeyReferenceTooLarge))
		return
	}

	c.apply(ctx, sess, conversation.PhotoInput{Reference: conversation.Reference{
		FileID:       doc.FileID,
		FileUniqueID: doc.FileUniqueID,
		FileSize:     doc.FileSize,
		MIME:         doc.MIMEType,
	}})
}

func (c *Controller) handleCallback(ctx context.Context, cb *telegram.CallbackQuery) {
	if cb.Message == nil {
		// Without the origin message there is no chat to answer in.
		c.answerCallback(ctx, cb.ID, "")
		return
	}
	chatID := cb.Message.Chat.ID

	opt, ok := conversation.ParseOption(cb.Data)
	if !ok {
		c.logger.Warn().Str("data", cb.Data).Int64("user_id", cb.From.ID).Msg("unknown callback data")
		c.answerCallback(ctx, cb.ID, "")
		return
	}

	sess := c.sessions.GetOrCreate(cb.From.ID, chatID)
	if !sess.TryLock() {
		c.answerCallback(ctx, cb.ID, i18n.T(c.locale(cb.From.LanguageCode), i18n.KeyBusy))
		return
	}
	defer sess.Unlock()
	c.ensureLocale(sess, cb.From.LanguageCode)

	sel := conversation.Selection{Option: opt}
	if _, _, valid := conversation.Next(sess.State, sel); !valid {
		// A press on a menu the dialogue has moved past. Answer with a
		// toast instead of spamming the chat.
		c.answerCallback(ctx, cb.ID, i18n.T(sess.Locale, i18n.KeyMenuExpired))
		return
	}

	c.answerCallback(ctx, cb.ID, "")
	// Retire the pressed menu so stale buttons do not invite double taps.
	if err := c.tg.EditMessageReplyMarkup(ctx, chatID, cb.Message.MessageID, nil); err != nil {
		c.logger.Debug().Err(err).Int64("chat_id", chatID).Msg("retire keyboard failed")
	}

	c.apply(ctx, sess, sel)
}

// apply runs one event through the transition table and executes the
// resulting action. The caller holds the session lock. It reports whether
// the event was accepted.
func (c *Controller) apply(ctx context.Context, sess *conversation.Session, ev conversation.Event) bool {
	next, action, ok := conversation.Next(sess.State, ev)
	if !ok {
		c.logger.Debug().
			Int64("user_id", sess.UserID).
			Stringer("state", sess.State).
			Str("event", ev.Name()).
			Msg("event rejected")
		if isUserEvent(ev) {
			c.reprompt(ctx, sess)
		}
		return false
	}

	prev := sess.State
	c.mutate(sess, ev, action)
	sess.State = next
	c.logger.Info().
		Int64("user_id", sess.UserID).
		Int64("chat_id", sess.ChatID).
		Stringer("from", prev).
		Stringer("to", next).
		Str("event", ev.Name()).
		Stringer("action", action).
		Msg("transition")

	c.perform(ctx, sess, action)
	return true
}

// mutate applies the event payload to the session fields. Changes key off
// the action so the same event type can mean different things per state.
func (c *Controller) mutate(sess *conversation.Session, ev conversation.Event, action conversation.Action) {
	switch action {
	case conversation.ActionWelcome, conversation.ActionReset, conversation.ActionFinish:
		sess.ResetAll()
	case conversation.ActionEnhance:
		if e, ok := ev.(conversation.TextInput); ok {
			sess.BeginCycle(e.Content)
		}
	case conversation.ActionOfferChoice:
		if e, ok := ev.(conversation.EnhanceSucceeded); ok {
			sess.SetEnhanced(e.Enhanced)
		}
	case conversation.ActionFallBackToOriginal:
		sess.ChooseOriginal()
	case conversation.ActionAskReference:
		if e, ok := ev.(conversation.Selection); ok && e.Option == conversation.OptionUseEnhanced {
			sess.ChooseEnhanced()
		} else {
			sess.ChooseOriginal()
		}
	case conversation.ActionGenerate:
		if e, ok := ev.(conversation.PhotoInput); ok {
			sess.AttachReference(e.Reference)
		}
	case conversation.ActionDeliver:
		if e, ok := ev.(conversation.GenerateSucceeded); ok {
			sess.CompleteGeneration(e.Result)
		}
	case conversation.ActionAskNewPrompt:
		sess.ClearPromptCycle()
	}
}

// perform executes the side effects of an accepted transition. Upstream
// calls feed their outcome back through apply, so delivery and failure
// handling go through the same table as everything else.
func (c *Controller) perform(ctx context.Context, sess *conversation.Session, action conversation.Action) {
	locale, chatID := sess.Locale, sess.ChatID

	switch action {
	case conversation.ActionWelcome:
		c.send(ctx, chatID, i18n.T(locale, i18n.KeyWelcome))
	case conversation.ActionEnhance, conversation.ActionEnhanceAgain:
		c.runEnhance(ctx, sess)
	case conversation.ActionOfferChoice:
		c.sendMenu(ctx, chatID, i18n.Tf(locale, i18n.KeyEnhanceOffer, sess.OriginalPrompt, sess.EnhancedPrompt), enhancementKeyboard(locale))
	case conversation.ActionOfferChoiceAgain:
		c.send(ctx, chatID, i18n.T(locale, i18n.KeyEnhanceKeptOld))
		c.sendMenu(ctx, chatID, i18n.Tf(locale, i18n.KeyEnhanceOffer, sess.OriginalPrompt, sess.EnhancedPrompt), enhancementKeyboard(locale))
	case conversation.ActionFallBackToOriginal:
		c.send(ctx, chatID, i18n.T(locale, i18n.KeyEnhanceFallback))
		c.sendMenu(ctx, chatID, i18n.T(locale, i18n.KeyAskReference), referenceKeyboard(locale))
	case conversation.ActionAskReference:
		c.sendMenu(ctx, chatID, i18n.T(locale, i18n.KeyAskReference), referenceKeyboard(locale))
	case conversation.ActionAskUpload:
		c.send(ctx, chatID, i18n.T(locale, i18n.KeyAskUpload))
	case conversation.ActionGenerate:
		c.runGenerate(ctx, sess)
	case conversation.ActionDeliver:
		c.deliver(ctx, sess)
	case conversation.ActionReportFailure:
		c.sendMenu(ctx, chatID, i18n.T(locale, i18n.KeyGenerateFailed), retryKeyboard(locale))
	case conversation.ActionAskNewPrompt:
		c.send(ctx, chatID, i18n.T(locale, i18n.KeyAskPrompt))
	case conversation.ActionFinish:
		c.send(ctx, chatID, i18n.T(locale, i18n.KeyGoodbye))
		c.sessions.Delete(sess.UserID)
	case conversation.ActionReset:
		c.send(ctx, chatID, i18n.T(locale, i18n.KeyCancelled))
		c.sessions.Delete(sess.UserID)
	case conversation.ActionBusy:
		c.send(ctx, chatID, i18n.T(locale, i18n.KeyBusy))
	}
}

// runEnhance asks the upstream to improve the original prompt and feeds the
// outcome back as an event. Failures degrade the dialogue, never abort it.
func (c *Controller) runEnhance(ctx context.Context, sess *conversation.Session) {
	c.chatAction(ctx, sess.ChatID, telegram.ChatActionTyping)

	tctx, cancel := context.WithTimeout(ctx, c.enhanceTimeout)
	improved, err := c.gen.ImprovePrompt(tctx, sess.OriginalPrompt)
	cancel()
	if err != nil {
		c.logger.Warn().Err(err).Int64("user_id", sess.UserID).Msg("prompt enhancement failed")
		c.apply(ctx, sess, conversation.EnhanceFailed{})
		return
	}

	c.apply(ctx, sess, conversation.EnhanceSucceeded{Enhanced: improved})
}

// runGenerate performs one generation cycle: fetch the reference when one
// is attached, call the upstream with bounded retries, then feed the
// outcome back as an event. Every cycle gets its own request id so its log
// lines can be correlated.
func (c *Controller) runGenerate(ctx context.Context, sess *conversation.Session) {
	log := c.logger.With().
		Str("request_id", uuid.NewString()).
		Int64("user_id", sess.UserID).
		Int64("chat_id", sess.ChatID).
		Logger()

	c.send(ctx, sess.ChatID, i18n.T(sess.Locale, i18n.KeyGenerating))
	c.chatAction(ctx, sess.ChatID, telegram.ChatActionUploadPhoto)

	req := leonardo.GenerateRequest{Prompt: sess.ActivePrompt}
	if sess.Reference != nil {
		ref, err := c.fetchReference(ctx, sess.Reference)
		if err != nil {
			log.Warn().Err(err).Msg("reference download failed")
			c.generationsFail.Add(1)
			c.apply(ctx, sess, conversation.GenerateFailed{})
			return
		}
		req.Reference = ref
	}

	img, err := c.generateWithRetry(ctx, log, req)
	if err != nil {
		c.generationsFail.Add(1)
		c.apply(ctx, sess, conversation.GenerateFailed{})
		return
	}

	log.Info().Str("generation_id", img.GenerationID).Msg("generation complete")
	c.generationsOK.Add(1)
	c.apply(ctx, sess, conversation.GenerateSucceeded{Result: conversation.Result{
		GenerationID: img.GenerationID,
		URL:          img.URL,
		Prompt:       req.Prompt,
		At:           time.Now(),
	}})
}

func (c *Controller) generateWithRetry(ctx context.Context, log infra.Logger, req leonardo.GenerateRequest) (*leonardo.GeneratedImage, error) {
	attempts := c.generateRetries + 1
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		tctx, cancel := context.WithTimeout(ctx, c.generateTimeout)
		img, err := c.gen.Generate(tctx, req)
		cancel()
		if err == nil {
			return img, nil
		}
		lastErr = err
		log.Warn().Err(err).
			Int("attempt", attempt).
			Int("attempts", attempts).
			Msg("generation attempt failed")
		// Validation errors and cancelled parents will not improve on retry.
		if !leonardo.IsUpstream(err) || ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

// fetchReference downloads the attached Telegram file so it can be uploaded
// upstream.
func (c *Controller) fetchReference(ctx context.Context, ref *conversation.Reference) (*leonardo.ReferenceImage, error) {
	file, err := c.tg.GetFile(ctx, ref.FileID)
	if err != nil {
		return nil, err
	}
	data, err := c.tg.DownloadFile(ctx, file.FilePath)
	if err != nil {
		return nil, err
	}

	mime := ref.MIME
	if mime == "" {
		mime = "image/jpeg"
	}
	return &leonardo.ReferenceImage{Data: data, MIME: mime}, nil
}

// deliver sends the finished image with the iteration menu attached, then
// archives a copy. Telegram fetches the image from the result URL itself;
// if that fails the raw URL still reaches the user.
func (c *Controller) deliver(ctx context.Context, sess *conversation.Session) {
	res := sess.LastResult
	if res == nil {
		return
	}

	_, err := c.tg.SendPhoto(ctx, telegram.SendPhotoRequest{
		ChatID:      sess.ChatID,
		Photo:       res.URL,
		Caption:     i18n.T(sess.Locale, i18n.KeyResultCaption),
		ReplyMarkup: iterationKeyboard(sess.Locale),
	})
	if err != nil {
		c.logger.Error().Err(err).Int64("chat_id", sess.ChatID).Msg("deliver photo failed")
		c.sendMenu(ctx, sess.ChatID, res.URL, iterationKeyboard(sess.Locale))
	}

	if key, err := c.archiver.Save(ctx, sess.UserID, res.GenerationID, res.URL); err != nil {
		c.logger.Warn().Err(err).Int64("user_id", sess.UserID).Msg("archive copy failed")
	} else if key != "" {
		c.logger.Debug().Str("key", key).Msg("result archived")
	}
}

// reprompt restates what the current state expects without changing it.
func (c *Controller) reprompt(ctx context.Context, sess *conversation.Session) {
	locale, chatID := sess.Locale, sess.ChatID

	switch sess.State {
	case conversation.StateIdle:
		c.send(ctx, chatID, i18n.T(locale, i18n.KeyIdleHint))
	case conversation.StateAwaitingPrompt:
		c.send(ctx, chatID, i18n.T(locale, i18n.KeyAskPrompt))
	case conversation.StateAwaitingEnhancementChoice:
		c.sendMenu(ctx, chatID, i18n.T(locale, i18n.KeyChooseReminder), enhancementKeyboard(locale))
	case conversation.StateAwaitingReferenceDecision:
		c.sendMenu(ctx, chatID, i18n.T(locale, i18n.KeyChooseReminder), referenceKeyboard(locale))
	case conversation.StateAwaitingReferenceUpload:
		c.send(ctx, chatID, i18n.T(locale, i18n.KeyUploadReminder))
	case conversation.StateGenerating:
		c.send(ctx, chatID, i18n.T(locale, i18n.KeyBusy))
	case conversation.StateAwaitingIteration:
		c.sendMenu(ctx, chatID, i18n.T(locale, i18n.KeyChooseReminder), iterationKeyboard(locale))
	}
}

func (c *Controller) ensureLocale(sess *conversation.Session, code string) {
	if sess.Locale == "" {
		sess.Locale = c.locale(code)
	}
}

func (c *Controller) locale(code string) string {
	return i18n.Resolve(code, c.defaultLocale)
}

func (c *Controller) send(ctx context.Context, chatID int64, text string) {
	if _, err := c.tg.SendMessage(ctx, telegram.SendMessageRequest{ChatID: chatID, Text: text}); err != nil {
		c.logger.Error().Err(err).Int64("chat_id", chatID).Msg("send message failed")
	}
}

func (c *Controller) sendMenu(ctx context.Context, chatID int64, text string, kb *telegram.InlineKeyboardMarkup) {
	if _, err := c.tg.SendMessage(ctx, telegram.SendMessageRequest{ChatID: chatID, Text: text, ReplyMarkup: kb}); err != nil {
		c.logger.Error().Err(err).Int64("chat_id", chatID).Msg("send menu failed")
	}
}

func (c *Controller) chatAction(ctx context.Context, chatID int64, action string) {
	if err := c.tg.SendChatAction(ctx, chatID, action); err != nil {
		c.logger.Debug().Err(err).Int64("chat_id", chatID).Msg("chat action failed")
	}
}

func (c *Controller) answerCallback(ctx context.Context, callbackID, text string) {
	if err := c.tg.AnswerCallbackQuery(ctx, callbackID, text); err != nil {
		c.logger.Debug().Err(err).Msg("answer callback failed")
	}
}

// isUserEvent reports whether the event came from the user. Only those get
// a re-prompt on rejection; stale internal events are just logged.
func isUserEvent(ev conversation.Event) bool {
	switch ev.(type) {
	case conversation.Start, conversation.Cancel, conversation.TextInput, conversation.PhotoInput, conversation.Selection:
		return true
	}
	return false
}

// menuShortcut maps a typed digit onto the menu option it stands for, in
// the order the buttons are laid out.
func menuShortcut(s conversation.State, text string) (conversation.Option, bool) {
	var opts []conversation.Option
	switch s {
	case conversation.StateAwaitingEnhancementChoice:
		opts = []conversation.Option{conversation.OptionUseEnhanced, conversation.OptionEnhanceAgain, conversation.OptionUseOriginal}
	case conversation.StateAwaitingReferenceDecision:
		opts = []conversation.Option{conversation.OptionAttachReference, conversation.OptionSkipReference}
	case conversation.StateAwaitingIteration:
		opts = []conversation.Option{conversation.OptionRegenerate, conversation.OptionEditPrompt, conversation.OptionFinish}
	default:
		return "", false
	}
	for i, opt := range opts {
		if text == strconv.Itoa(i+1) {
			return opt, true
		}
	}
	return "", false
}
