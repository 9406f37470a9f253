package notify

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"go.uber.org/zap"

	"github.com/xyths/nft-dashboard/metrics"
	"github.com/xyths/nft-dashboard/nft"
)

type TelegramConf struct {
	Bot   string // bot username
	Token string
	Chats []Subscription
}

type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Telegram struct {
	chats []Subscription
	bot   telegramSender

	Sugar *zap.SugaredLogger
}

func NewTelegram(cfg TelegramConf, sugar *zap.SugaredLogger) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}
	sugar.Infof("Telegram bot %s initialized", bot.Self.UserName)
	return &Telegram{chats: cfg.Chats, bot: bot, Sugar: sugar}, nil
}

func (t *Telegram) Name() string { return "telegram" }

func (t *Telegram) Notify(ctx context.Context, events []nft.Event) error {
	for _, chat := range t.chats {
		chatId := chat.ChatId
		n, err := dispatch(ctx, chat, events, burstPause, func(text string) error {
			_, err := t.bot.Send(tgbotapi.NewMessage(chatId, text))
			metrics.ObserveNotification(t.Name(), err)
			if err != nil {
				t.Sugar.Errorf("send message to %d error: %s", chatId, err)
			}
			return err
		})
		t.Sugar.Infof("chat %d: %d events sent", chatId, n)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			t.Sugar.Errorf("dispatch events to %d error: %s", chatId, err)
		}
	}
	return nil
}
