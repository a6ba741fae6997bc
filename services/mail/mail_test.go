package mail

import (
	"context"
	"strings"
	"testing"

	"github.com/bbyours/attendance-server/services/session"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/ses"
	"go.uber.org/zap"
)

type capturingSES struct {
	input *ses.SendEmailInput
}

func (c *capturingSES) SendEmailWithContext(ctx aws.Context, input *ses.SendEmailInput, opts ...request.Option) (*ses.SendEmailOutput, error) {
	c.input = input
	return &ses.SendEmailOutput{MessageId: aws.String("test-message")}, nil
}

func TestSESMailerSendOTP(t *testing.T) {
	svc := &capturingSES{}
	m := &SESMailer{Service: svc, From: "noreply@attendance.local", Logger: zap.NewNop()}

	err := m.SendOTP(context.Background(), "kim@example.com", "Kim", session.PurposeEarlyClockIn, "482913")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if svc.input == nil {
		t.Fatal("no mail was handed to ses")
	}
	if got := *svc.input.Source; got != "noreply@attendance.local" {
		t.Errorf("wrong source: %s", got)
	}
	if got := *svc.input.Destination.ToAddresses[0]; got != "kim@example.com" {
		t.Errorf("wrong destination: %s", got)
	}
	if subject := *svc.input.Message.Subject.Data; !strings.Contains(subject, "early clock in") {
		t.Errorf("subject does not name the request type: %s", subject)
	}
	body := *svc.input.Message.Body.Text.Data
	if !strings.Contains(body, "482913") {
		t.Errorf("body does not carry the passcode: %s", body)
	}
	if !strings.Contains(body, "Kim") {
		t.Errorf("body does not address the employee: %s", body)
	}
}

func TestLogMailerSendOTP(t *testing.T) {
	m := &LogMailer{Logger: zap.NewNop(), From: "noreply@attendance.local"}
	if err := m.SendOTP(context.Background(), "kim@example.com", "Kim", session.PurposeOvertime, "000042"); err != nil {
		t.Fatalf("log mailer must not fail: %v", err)
	}
}

func TestPurposePhrase(t *testing.T) {
	expected := map[string]string{
		session.PurposeEarlyClockIn: "early clock in",
		session.PurposeOvertime:     "overtime",
		"overtime":                  "overtime",
		"SOMETHINGNEW":              "somethingnew",
	}
	for input, want := range expected {
		if got := purposePhrase(input); got != want {
			t.Errorf("purposePhrase(%s) = %s, want %s", input, got, want)
		}
	}
}
