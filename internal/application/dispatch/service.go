package dispatch

import (
	"context"
	"fmt"

	"github.com/bloodlink-api/internal/domain"
)

type mailer interface {
	SendOTP(ctx context.Context, to, code string, validMinutes int) error
}

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

// Direct delivers codes synchronously: email over SMTP, phone over SNS.
type Direct struct {
	mailer mailer
	sms    smsSender
}

func NewDirect(m mailer, s smsSender) *Direct {
	return &Direct{mailer: m, sms: s}
}

// Deliver sends msg on its channel.
func (d *Direct) Deliver(ctx context.Context, msg domain.OTPMessage) error {
	switch msg.Channel {
	case domain.ChannelEmail:
		return d.mailer.SendOTP(ctx, msg.Address, msg.Code, msg.ValidMinutes)
	case domain.ChannelPhone:
		text := fmt.Sprintf("Your BloodLink verification code is %s. It expires in %d minutes.", msg.Code, msg.ValidMinutes)
		return d.sms.SendSMS(ctx, msg.Address, text)
	}
	return fmt.Errorf("unknown channel %q", msg.Channel)
}
