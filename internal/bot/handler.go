// Package bot routes incoming Telegram messages to commands and the
// prediction flow.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"CandleSage/internal/cache"
	"CandleSage/internal/collector"
	"CandleSage/internal/metrics"
	"CandleSage/internal/model"
	"CandleSage/internal/notifier"
	"CandleSage/internal/quota"
	"CandleSage/internal/recorder"
	"CandleSage/internal/strategy"
)

// Symbols must be 4 to 12 uppercase letters or digits, e.g. BTCUSDT.
var symbolPattern = regexp.MustCompile(`^[A-Z0-9]{4,12}$`)

// defaultSymbols is used until the first exchange info refresh succeeds.
var defaultSymbols = []string{
	"BTCUSDT", "ETHUSDT", "BNBUSDT", "SOLUSDT", "XRPUSDT",
	"ADAUSDT", "DOGEUSDT", "DOTUSDT", "LTCUSDT", "LINKUSDT",
}

// TypingSender shows a typing indicator while a prediction is computed.
type TypingSender interface {
	SendTyping(chatID int64)
}

// Handler holds the collaborators for serving one user message.
type Handler struct {
	Fetcher     collector.Fetcher
	Quota       quota.Store
	Cache       cache.Cache
	Recorder    recorder.Recorder
	Metrics     *metrics.Metrics
	Typing      TypingSender
	Params      model.Params
	Timeframe   string
	CandleLimit int
	CacheTTL    time.Duration
	BotUsername string

	mu      sync.RWMutex
	symbols map[string]struct{}
}

// NewHandler creates a handler seeded with the default symbol set.
func NewHandler(fetcher collector.Fetcher, store quota.Store, c cache.Cache, rec recorder.Recorder, m *metrics.Metrics, params model.Params, timeframe string, candleLimit int, cacheTTL time.Duration, botUsername string) *Handler {
	symbols := make(map[string]struct{}, len(defaultSymbols))
	for _, s := range defaultSymbols {
		symbols[s] = struct{}{}
	}
	return &Handler{
		Fetcher:     fetcher,
		Quota:       store,
		Cache:       c,
		Recorder:    rec,
		Metrics:     m,
		Params:      params,
		Timeframe:   timeframe,
		CandleLimit: candleLimit,
		CacheTTL:    cacheTTL,
		BotUsername: botUsername,
		symbols:     symbols,
	}
}

// RefreshSymbols replaces the known symbol set from the exchange.
func (h *Handler) RefreshSymbols() error {
	list, err := h.Fetcher.FetchSymbols()
	if err != nil {
		return fmt.Errorf("fetch symbols: %w", err)
	}
	if len(list) == 0 {
		return errors.New("exchange returned empty symbol list")
	}
	symbols := make(map[string]struct{}, len(list))
	for _, s := range list {
		symbols[strings.ToUpper(s)] = struct{}{}
	}
	h.mu.Lock()
	h.symbols = symbols
	h.mu.Unlock()
	log.Printf("[INFO] symbol set refreshed: %d symbols", len(list))
	return nil
}

func (h *Handler) knownSymbol(symbol string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.symbols[symbol]
	return ok
}

// HandleMessage dispatches one incoming message and returns the reply text.
func (h *Handler) HandleMessage(msg *notifier.IncomingMessage) string {
	text := strings.TrimSpace(msg.Text)
	switch {
	case strings.HasPrefix(text, "/start"):
		return h.handleStart(msg, text)
	case text == "/help":
		return h.helpText()
	case text == "/quota":
		return h.handleQuota(msg)
	case text == "/referral":
		return h.handleReferral(msg)
	case strings.HasPrefix(text, "/"):
		return "Unknown command. Send /help to see what I can do."
	default:
		return h.handlePrediction(msg, strings.ToUpper(text))
	}
}

func (h *Handler) handleStart(msg *notifier.IncomingMessage, text string) string {
	// Deep-link payload: "/start ref_<referrer id>".
	parts := strings.Fields(text)
	if len(parts) == 2 && strings.HasPrefix(parts[1], "ref_") {
		referrerID, err := strconv.ParseInt(strings.TrimPrefix(parts[1], "ref_"), 10, 64)
		if err == nil && referrerID != msg.UserID {
			if err := h.Quota.AddReferral(referrerID); err != nil {
				log.Printf("[WARN] credit referral for %d: %v", referrerID, err)
			} else {
				log.Printf("[INFO] user %d joined via referral from %d", msg.UserID, referrerID)
			}
		}
	}

	name := msg.FirstName
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf("Hi <b>%s</b>! 👋\n\nSend me a trading pair like <code>BTCUSDT</code> and I'll analyze it for you.\n\n%s", name, h.helpText())
}

func (h *Handler) helpText() string {
	return "<b>Commands</b>\n" +
		"• Send a pair symbol (e.g. <code>BTCUSDT</code>) to get a prediction\n" +
		"• /quota — check your remaining predictions today\n" +
		"• /referral — get your invite link for bonus predictions\n" +
		"• /help — show this message"
}

func (h *Handler) handleQuota(msg *notifier.IncomingMessage) string {
	remaining, err := h.Quota.Remaining(msg.UserID)
	if err != nil {
		log.Printf("[ERROR] quota lookup for %d: %v", msg.UserID, err)
		return "Sorry, I couldn't check your quota right now. Please try again later."
	}
	return fmt.Sprintf("You have <b>%d</b> predictions left today. Quotas reset at midnight UTC.", remaining)
}

func (h *Handler) handleReferral(msg *notifier.IncomingMessage) string {
	link := fmt.Sprintf("https://t.me/%s?start=ref_%d", h.BotUsername, msg.UserID)
	return fmt.Sprintf("Share your invite link and earn bonus predictions for every friend who joins:\n\n%s", link)
}

func (h *Handler) handlePrediction(msg *notifier.IncomingMessage, symbol string) string {
	if !symbolPattern.MatchString(symbol) {
		return "That doesn't look like a trading pair. Send a symbol like <code>BTCUSDT</code> (4-12 letters or digits)."
	}
	if !h.knownSymbol(symbol) {
		return fmt.Sprintf("I don't know the pair <code>%s</code>. Try a major pair like <code>BTCUSDT</code> or <code>ETHUSDT</code>.", symbol)
	}

	remaining, err := h.Quota.Remaining(msg.UserID)
	if err != nil {
		log.Printf("[ERROR] quota lookup for %d: %v", msg.UserID, err)
		return "Sorry, I couldn't check your quota right now. Please try again later."
	}
	if remaining <= 0 {
		h.Metrics.QuotaDeniedTotal.Inc()
		return "You've used all your predictions for today. 😔\n\nQuotas reset at midnight UTC, or use /referral to earn bonus predictions."
	}

	if h.Typing != nil {
		h.Typing.SendTyping(msg.ChatID)
	}

	candles, err := h.Fetcher.FetchCandles(symbol, h.Timeframe, h.CandleLimit)
	if err != nil {
		h.Metrics.PredictionErrorsTotal.Inc()
		log.Printf("[ERROR] fetch candles for %s: %v", symbol, err)
		return fmt.Sprintf("Couldn't fetch market data for <code>%s</code> right now. Please try again in a minute.", symbol)
	}
	if len(candles) == 0 {
		h.Metrics.PredictionErrorsTotal.Inc()
		return fmt.Sprintf("No market data available for <code>%s</code>.", symbol)
	}

	pred, fresh, err := h.predict(symbol, candles)
	if err != nil {
		// Engine rejections do not consume quota.
		if errors.Is(err, model.ErrInvalidSeries) || errors.Is(err, model.ErrInvalidConfig) {
			h.Metrics.PredictionErrorsTotal.Inc()
			log.Printf("[WARN] compose rejected for %s: %v", symbol, err)
			return fmt.Sprintf("Sorry, I couldn't analyze <code>%s</code> with the data available.", symbol)
		}
		h.Metrics.PredictionErrorsTotal.Inc()
		log.Printf("[ERROR] compose for %s: %v", symbol, err)
		return "Something went wrong while analyzing. Please try again."
	}

	if err := h.Quota.Consume(msg.UserID); err != nil {
		log.Printf("[WARN] consume quota for %d: %v", msg.UserID, err)
	}
	if fresh {
		if err := h.Recorder.Record(&recorder.Entry{UserID: msg.UserID, Prediction: pred}); err != nil {
			log.Printf("[WARN] record prediction: %v", err)
		}
	}
	h.Metrics.PredictionsTotal.Inc()

	return notifier.FormatPrediction(pred, remaining-1)
}

// predict returns the prediction for the latest candle window, from cache
// when possible. The bool reports whether the prediction was freshly computed.
func (h *Handler) predict(symbol string, candles []model.Candle) (*model.Prediction, bool, error) {
	ctx := context.Background()
	key := cache.Key(symbol, h.Timeframe, candles[len(candles)-1].OpenTime)

	if cached, err := h.Cache.Get(ctx, key); err == nil {
		h.Metrics.CacheHitsTotal.Inc()
		return cached, false, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		log.Printf("[WARN] cache lookup: %v", err)
	}

	start := time.Now()
	pred, err := strategy.Compose(symbol, h.Timeframe, candles, h.Params)
	if err != nil {
		return nil, false, err
	}
	h.Metrics.ComposeDuration.Observe(time.Since(start).Seconds())

	if err := h.Cache.Set(ctx, key, pred, h.CacheTTL); err != nil {
		log.Printf("[WARN] cache store: %v", err)
	}
	return pred, true, nil
}
