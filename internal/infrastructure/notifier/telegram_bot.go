package notifier

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"net/http"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"transfer_scanner/internal/domain/entity"
	"transfer_scanner/pkg/contextx"
	"transfer_scanner/pkg/httpx"
	"transfer_scanner/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const deadlineLayout = "02 Jan 15:04"

type TelegramBot struct {
	bot    *telego.Bot
	chatID int64
}

type Option func(*[]telego.BotOption)

// WithAPIServer points the bot to another Bot API server (tests, local bot api).
func WithAPIServer(url string) Option {
	return func(opts *[]telego.BotOption) {
		*opts = append(*opts, telego.WithAPIServer(url))
	}
}

func NewTelegramBot(token string, chatID int64, opts ...Option) (*TelegramBot, error) {
	httpClient := &http.Client{
		Transport: httpx.NewLoggingRoundTripper(
			http.DefaultTransport,
			httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
			httpx.WithLogFieldMaxLen(4096),
		),
	}

	botOpts := []telego.BotOption{
		telego.WithHTTPClient(httpClient),
		telego.WithDiscardLogger(),
	}

	for _, opt := range opts {
		opt(&botOpts)
	}

	bot, err := telego.NewBot(token, botOpts...)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &TelegramBot{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// Run отправляет сделки из канала, пока канал не закрыт.
func (b *TelegramBot) Run(ctx context.Context, deals <-chan entity.DealRecord) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case deal, ok := <-deals:
			if !ok {
				return nil
			}

			if err := b.SendDeal(ctx, deal); err != nil {
				logger(ctx).Error("failed to send deal",
					slog.String(logx.FieldPlayerID, deal.PlayerID),
					logx.Error(err),
				)
			}
		}
	}
}

func (b *TelegramBot) SendDeal(ctx context.Context, deal entity.DealRecord) error {
	msg := tu.Message(
		tu.ID(b.chatID),
		FormatDeal(deal),
	).WithParseMode(telego.ModeHTML)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

func (b *TelegramBot) SendText(ctx context.Context, text string) error {
	msg := tu.Message(tu.ID(b.chatID), text)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

// FormatDeal renders a deal as an HTML bot message.
func FormatDeal(deal entity.DealRecord) string {
	text := fmt.Sprintf(
		"🔥 <b>Deal found</b>\n\n"+
			"🆔 <b>Player:</b> %s\n"+
			"💰 <b>Price:</b> %d\n",
		html.EscapeString(deal.PlayerID),
		deal.Price,
	)

	if deal.Wage != nil {
		text += fmt.Sprintf("💸 <b>Wage:</b> %d\n", *deal.Wage)
	}

	text += fmt.Sprintf(
		"📊 <b>Median:</b> %d\n"+
			"⏰ <b>Deadline:</b> %s\n\n"+
			"🔗 <a href=\"%s\">Open listing</a>",
		deal.ReferenceValue,
		deal.Deadline.Format(deadlineLayout),
		html.EscapeString(deal.Link()),
	)

	return text
}
