package services

import (
	"fmt"
	"net/smtp"
	"os"

	"pawtrack-backend/models"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// Notifier delivers invoices to clients. Implementations report an
// unconfigured channel with ErrDeliveryNotConfigured and a transport
// failure with ErrDeliveryFailed; callers leave the invoice untouched in
// either case.
type Notifier interface {
	SendInvoiceEmail(invoice *models.Invoice, client *models.Client) error
	SendInvoiceSMS(invoice *models.Invoice, client *models.Client) error
}

// EnvNotifier sends SMS through Twilio and email through plain SMTP,
// both configured from the environment. Missing credentials degrade to
// ErrDeliveryNotConfigured rather than startup failure, so a deployment
// without a channel simply cannot use it.
type EnvNotifier struct {
	twilioClient *twilio.RestClient
	twilioFrom   string

	smtpHost string
	smtpPort string
	smtpUser string
	smtpPass string
	fromAddr string

	log *zap.Logger
}

func NewEnvNotifier(log *zap.Logger) *EnvNotifier {
	n := &EnvNotifier{
		twilioFrom: os.Getenv("TWILIO_PHONE_NUMBER"),
		smtpHost:   os.Getenv("SMTP_HOST"),
		smtpPort:   os.Getenv("SMTP_PORT"),
		smtpUser:   os.Getenv("SMTP_USERNAME"),
		smtpPass:   os.Getenv("SMTP_PASSWORD"),
		fromAddr:   os.Getenv("SMTP_FROM_ADDRESS"),
		log:        log,
	}
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	if accountSid != "" && authToken != "" {
		n.twilioClient = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		})
	}
	return n
}

func invoiceSummary(invoice *models.Invoice, client *models.Client) string {
	return fmt.Sprintf("Hi %s, your invoice %s for $%s is due %s.",
		client.Name,
		invoice.InvoiceNumber,
		invoice.Amount.StringFixed(2),
		invoice.DueDate.Format("Jan 2, 2006"))
}

func (n *EnvNotifier) SendInvoiceSMS(invoice *models.Invoice, client *models.Client) error {
	if n.twilioClient == nil || n.twilioFrom == "" {
		return fmt.Errorf("twilio: %w", ErrDeliveryNotConfigured)
	}
	if client.Phone == "" {
		return fmt.Errorf("client %s has no phone: %w", client.ID, ErrDeliveryFailed)
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(client.Phone)
	params.SetFrom(n.twilioFrom)
	params.SetBody(invoiceSummary(invoice, client))

	resp, err := n.twilioClient.Api.CreateMessage(params)
	if err != nil {
		n.log.Warn("twilio send failed",
			zap.String("invoice_id", invoice.ID.String()), zap.Error(err))
		return fmt.Errorf("twilio: %v: %w", err, ErrDeliveryFailed)
	}
	if resp.Sid != nil {
		n.log.Info("invoice SMS sent",
			zap.String("invoice_id", invoice.ID.String()),
			zap.String("sid", *resp.Sid))
	}
	return nil
}

func (n *EnvNotifier) SendInvoiceEmail(invoice *models.Invoice, client *models.Client) error {
	if n.smtpHost == "" {
		return fmt.Errorf("smtp: %w", ErrDeliveryNotConfigured)
	}
	if client.Email == "" {
		return fmt.Errorf("client %s has no email: %w", client.ID, ErrDeliveryFailed)
	}

	subject := fmt.Sprintf("Invoice %s", invoice.InvoiceNumber)
	body := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		n.fromAddr, client.Email, subject, invoiceSummary(invoice, client))

	var auth smtp.Auth
	if n.smtpUser != "" {
		auth = smtp.PlainAuth("", n.smtpUser, n.smtpPass, n.smtpHost)
	}
	addr := n.smtpHost + ":" + n.smtpPort
	if err := smtp.SendMail(addr, auth, n.fromAddr, []string{client.Email}, []byte(body)); err != nil {
		n.log.Warn("smtp send failed",
			zap.String("invoice_id", invoice.ID.String()), zap.Error(err))
		return fmt.Errorf("smtp: %v: %w", err, ErrDeliveryFailed)
	}
	n.log.Info("invoice email sent",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("to", client.Email))
	return nil
}
