package email

import (
	"fmt"
	"html"
	"strings"
)

// BookingEmailData fills the appointment receipt sent on lifecycle events.
type BookingEmailData struct {
	To          string
	PatientName string
	ServiceName string
	Date        string
	Time        string
	Amount      float64
	Currency    string
	Status      string
	PaymentNote string
	Headline    string
	AppName     string
	ManageURL   string
}

// BuildBookingEmail renders a plain text and an HTML body for one appointment.
func BuildBookingEmail(data BookingEmailData) Message {
	appName := data.AppName
	if appName == "" {
		appName = "Hospital"
	}
	name := data.PatientName
	if name == "" {
		name = "there"
	}
	headline := data.Headline
	if headline == "" {
		headline = "Your appointment has been updated"
	}
	amount := fmt.Sprintf("%.2f %s", data.Amount, strings.ToUpper(data.Currency))

	subject := fmt.Sprintf("%s: %s on %s", appName, data.ServiceName, data.Date)

	text := fmt.Sprintf(`Hi %s,

%s.

Service: %s
Date:    %s
Time:    %s
Status:  %s
Amount:  %s
%s
%s`,
		name, headline, data.ServiceName, data.Date, data.Time, data.Status, amount, data.PaymentNote, manageLine(data.ManageURL))

	e := html.EscapeString
	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #0f766e;">Hi %s,</h2>
    <p>%s.</p>
    <table style="border-collapse: collapse;">
        <tr><td style="padding: 4px 12px 4px 0;">Service</td><td><strong>%s</strong></td></tr>
        <tr><td style="padding: 4px 12px 4px 0;">Date</td><td>%s</td></tr>
        <tr><td style="padding: 4px 12px 4px 0;">Time</td><td>%s</td></tr>
        <tr><td style="padding: 4px 12px 4px 0;">Status</td><td>%s</td></tr>
        <tr><td style="padding: 4px 12px 4px 0;">Amount</td><td>%s</td></tr>
    </table>
    <p>%s</p>
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">%s</p>
</body>
</html>`,
		e(name), e(headline), e(data.ServiceName), e(data.Date), e(data.Time), e(data.Status), e(amount), e(data.PaymentNote), e(appName))

	return Message{
		To:       []string{data.To},
		Subject:  subject,
		TextBody: text,
		HTMLBody: body,
	}
}

func manageLine(url string) string {
	if url == "" {
		return ""
	}
	return "Manage your appointments: " + url
}
