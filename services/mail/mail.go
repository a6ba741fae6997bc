package mail

import (
	"context"
	"fmt"
	"strings"

	"github.com/bbyours/attendance-server/amazon"
	"github.com/bbyours/attendance-server/config"
	"github.com/bbyours/attendance-server/services/session"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/ses"
	"go.uber.org/zap"
)

// Mailer delivers one time passcodes to employees.
type Mailer interface {
	SendOTP(ctx context.Context, to, name, purpose, code string) error
}

// sesAPI hides SES
type sesAPI interface {
	SendEmailWithContext(ctx aws.Context, input *ses.SendEmailInput, opts ...request.Option) (*ses.SendEmailOutput, error)
}

// NewMailer selects the mail implementation for this process. When mail is
// not enabled, the passcode is written into the log so that development and
// test environments can proceed without an SES account.
func NewMailer(conf config.MailConfiguration, logger *zap.Logger) Mailer {
	if !conf.Enabled {
		logger.Info("mail disabled, passcodes will be logged")
		return &LogMailer{Logger: logger, From: conf.From}
	}
	awsConfig := config.NewAWSConfig(config.AT_AWS_SES_ENDPOINT)
	svc := ses.New(amazon.NewAWSSession(awsConfig, logger, "ses"))
	return &SESMailer{Service: svc, From: conf.From, Logger: logger}
}

// SESMailer sends passcodes through Amazon SES.
type SESMailer struct {
	Service sesAPI
	From    string
	Logger  *zap.Logger
}

// SendOTP mails a passcode for an exception request to the employee.
// The passcode itself is never logged.
func (m *SESMailer) SendOTP(ctx context.Context, to, name, purpose, code string) error {
	subject, body := composeOTP(name, purpose, code)
	input := &ses.SendEmailInput{
		Destination: &ses.Destination{
			ToAddresses: []*string{aws.String(to)},
		},
		Message: &ses.Message{
			Body: &ses.Body{
				Text: &ses.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(body),
				},
			},
			Subject: &ses.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String(subject),
			},
		},
		Source: aws.String(m.From),
	}
	_, err := m.Service.SendEmailWithContext(ctx, input)
	if err != nil {
		m.Logger.Warn("ses send fail", zap.Error(err))
		return err
	}
	m.Logger.Info("otp mail sent", zap.String("purpose", purpose))
	return nil
}

// LogMailer writes the mail into the process log instead of sending it.
type LogMailer struct {
	Logger *zap.Logger
	From   string
}

// SendOTP records the passcode mail in the log.
func (m *LogMailer) SendOTP(ctx context.Context, to, name, purpose, code string) error {
	subject, body := composeOTP(name, purpose, code)
	m.Logger.Info("otp mail (log only)",
		zap.String("from", m.From),
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}

// purposePhrase maps a stored passcode purpose onto the wording used in mail.
func purposePhrase(purpose string) string {
	switch strings.ToUpper(purpose) {
	case session.PurposeEarlyClockIn:
		return "early clock in"
	case session.PurposeOvertime:
		return "overtime"
	default:
		return strings.ToLower(purpose)
	}
}

func composeOTP(name, purpose, code string) (subject string, body string) {
	phrase := purposePhrase(purpose)
	subject = fmt.Sprintf("Your verification code for %s", phrase)
	body = fmt.Sprintf(
		"Hello %s,\n\nYour verification code for the %s request is %s.\nThe code can be used once and expires shortly.\n\nIf you did not request this, contact your administrator.\n",
		name, phrase, code,
	)
	return subject, body
}
