package notify

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/xyths/nft-dashboard/metrics"
	"github.com/xyths/nft-dashboard/nft"
)

type DiscordConf struct {
	Token    string
	Channels []Subscription
}

type discordSender interface {
	ChannelMessageSend(channelID string, content string) (*discordgo.Message, error)
}

type Discord struct {
	channels []Subscription
	session  discordSender
	close    func() error

	Sugar *zap.SugaredLogger
}

func NewDiscord(cfg DiscordConf, sugar *zap.SugaredLogger) (*Discord, error) {
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, err
	}
	if err = s.Open(); err != nil {
		return nil, err
	}
	sugar.Info("Discord bot initialized")
	return &Discord{channels: cfg.Channels, session: s, close: s.Close, Sugar: sugar}, nil
}

func (d *Discord) Name() string { return "discord" }

func (d *Discord) Notify(ctx context.Context, events []nft.Event) error {
	for _, ch := range d.channels {
		channel := ch.Channel
		n, err := dispatch(ctx, ch, events, burstPause, func(text string) error {
			_, err := d.session.ChannelMessageSend(channel, text)
			metrics.ObserveNotification(d.Name(), err)
			if err != nil {
				d.Sugar.Errorf("send message to %s error: %s", channel, err)
			}
			return err
		})
		d.Sugar.Infof("channel %s: %d events sent", channel, n)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			d.Sugar.Errorf("dispatch events to %s error: %s", channel, err)
		}
	}
	return nil
}

func (d *Discord) Close() {
	if d.close == nil {
		return
	}
	if err := d.close(); err != nil {
		d.Sugar.Errorf("discord close error: %s", err)
	}
}
