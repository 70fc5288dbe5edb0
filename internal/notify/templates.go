package notify

import (
	"fmt"
	"strings"
	"time"
)

// BookingKind distinguishes the two bookable flows.
type BookingKind string

const (
	BookingKindAppointment BookingKind = "appointment"
	BookingKindTestBooking BookingKind = "test-booking"
)

// AppointmentEvent describes a doctor appointment at the moment its state
// changed. Owned by the call that creates it; never persisted here.
type AppointmentEvent struct {
	AppointmentID        string
	PatientName          string
	PatientEmail         string
	PatientPhone         string
	DoctorName           string
	DoctorSpecialization string
	AppointmentDate      time.Time
	TimeSlot             string
	ConsultationFee      int
	Notes                string
	Status               string
}

// TestItem is one diagnostic test line in a test booking.
type TestItem struct {
	Name     string
	Quantity int
	Price    int
}

// TestBookingEvent describes a diagnostic-test booking.
type TestBookingEvent struct {
	BookingID        string
	PatientName      string
	PatientEmail     string
	PatientPhone     string
	Tests            []TestItem
	TotalAmount      int
	PreferredDate    *time.Time
	PreferredTime    string
	IsHomeCollection bool
	Address          string
	Notes            string
	Status           string
}

// PaymentEvent describes a captured payment.
type PaymentEvent struct {
	BookingID     string
	PatientName   string
	Amount        int
	PaymentID     string
	PaymentStatus string
	BookingType   BookingKind
}

// RenderedEmail is the mail channel's rendered content.
type RenderedEmail struct {
	Subject string
	HTML    string
	Text    string
}

// TemplateSet renders channel-specific content for domain events. All
// methods are pure: the same payload always produces byte-identical
// output.
type TemplateSet struct {
	appName string
	appURL  string
}

// NewTemplateSet creates a renderer bound to the application identity.
func NewTemplateSet(appName, appURL string) *TemplateSet {
	return &TemplateSet{appName: appName, appURL: appURL}
}

// AppointmentConfirmationEmail renders the patient-facing confirmation.
func (t *TemplateSet) AppointmentConfirmationEmail(evt AppointmentEvent) RenderedEmail {
	subject := fmt.Sprintf("Appointment Confirmed - Dr. %s", evt.DoctorName)
	date := formatLongDate(evt.AppointmentDate)

	var content strings.Builder
	content.WriteString("<h2>Your Appointment is Confirmed!</h2>\n")
	content.WriteString(`<div class="alert alert-success"><strong>Appointment Details:</strong></div>` + "\n")
	content.WriteString(`<table style="width: 100%; margin: 20px 0;">` + "\n")
	content.WriteString(detailRow("Doctor", fmt.Sprintf("Dr. %s (%s)", evt.DoctorName, evt.DoctorSpecialization)))
	content.WriteString(detailRow("Date &amp; Time", fmt.Sprintf("%s at %s", date, evt.TimeSlot)))
	content.WriteString(detailRow("Consultation Fee", formatINR(evt.ConsultationFee)))
	content.WriteString(detailRow("Appointment ID", evt.AppointmentID))
	content.WriteString("</table>\n")
	if evt.Notes != "" {
		content.WriteString(fmt.Sprintf("<p><strong>Notes:</strong> %s</p>\n", evt.Notes))
	}
	content.WriteString(`<div class="alert alert-info"><strong>Important:</strong> Please arrive 15 minutes before your appointment time.</div>` + "\n")
	content.WriteString(fmt.Sprintf(`<a href="%s/appointments/%s" class="button">View Appointment Details</a>`+"\n", t.appURL, evt.AppointmentID))
	content.WriteString("<p>If you need to reschedule or cancel, please contact us at least 24 hours in advance.</p>\n")

	text := renderTemplate(`Your Appointment is Confirmed!

Doctor: Dr. {{doctorName}} ({{specialization}})
Date & Time: {{date}} at {{timeSlot}}
Consultation Fee: {{fee}}
Appointment ID: {{appointmentId}}

Please arrive 15 minutes before your appointment time.
If you need to reschedule or cancel, please contact us at least 24 hours in advance.

View details: {{url}}/appointments/{{appointmentId}}`, map[string]string{
		"doctorName":     evt.DoctorName,
		"specialization": evt.DoctorSpecialization,
		"date":           date,
		"timeSlot":       evt.TimeSlot,
		"fee":            formatINR(evt.ConsultationFee),
		"appointmentId":  evt.AppointmentID,
		"url":            t.appURL,
	})

	return RenderedEmail{
		Subject: subject,
		HTML:    t.wrapInLayout(content.String()),
		Text:    text,
	}
}

// TestBookingConfirmationEmail renders the patient-facing test booking
// confirmation, with wording that depends on the collection method.
func (t *TemplateSet) TestBookingConfirmationEmail(evt TestBookingEvent) RenderedEmail {
	subject := fmt.Sprintf("Test Booking Confirmed - Order #%s", shortID(evt.BookingID, 8))

	var rows strings.Builder
	var lines []string
	for _, item := range evt.Tests {
		rows.WriteString(fmt.Sprintf(
			`<tr><td style="padding: 8px 0; border-bottom: 1px solid #f3f4f6;">%s</td><td style="padding: 8px 0; border-bottom: 1px solid #f3f4f6;">x%d</td><td style="padding: 8px 0; border-bottom: 1px solid #f3f4f6;">%s</td></tr>`+"\n",
			item.Name, item.Quantity, formatINR(item.Price*item.Quantity)))
		lines = append(lines, fmt.Sprintf("%s x%d - %s", item.Name, item.Quantity, formatINR(item.Price*item.Quantity)))
	}

	var content strings.Builder
	content.WriteString("<h2>Your Test Booking is Confirmed!</h2>\n")
	content.WriteString(`<div class="alert alert-success"><strong>Booking Details:</strong></div>` + "\n")
	content.WriteString(fmt.Sprintf("<p><strong>Booking ID:</strong> %s</p>\n", evt.BookingID))
	content.WriteString("<h3>Tests Ordered:</h3>\n")
	content.WriteString(`<table style="width: 100%; margin: 20px 0; border-collapse: collapse;">` + "\n")
	content.WriteString(`<thead><tr style="background-color: #f9fafb;"><th style="padding: 12px 8px; text-align: left;">Test</th><th style="padding: 12px 8px; text-align: left;">Quantity</th><th style="padding: 12px 8px; text-align: right;">Amount</th></tr></thead>` + "\n")
	content.WriteString("<tbody>\n")
	content.WriteString(rows.String())
	content.WriteString("</tbody>\n")
	content.WriteString(fmt.Sprintf(`<tfoot><tr style="background-color: #f9fafb; font-weight: bold;"><td style="padding: 12px 8px;">Total</td><td style="padding: 12px 8px;"></td><td style="padding: 12px 8px; text-align: right;">%s</td></tr></tfoot>`+"\n", formatINR(evt.TotalAmount)))
	content.WriteString("</table>\n")
	if evt.PreferredDate != nil {
		content.WriteString(fmt.Sprintf("<p><strong>Preferred Date:</strong> %s</p>\n", formatLongDate(*evt.PreferredDate)))
	}
	if evt.PreferredTime != "" {
		content.WriteString(fmt.Sprintf("<p><strong>Preferred Time:</strong> %s</p>\n", evt.PreferredTime))
	}
	if evt.IsHomeCollection {
		content.WriteString(fmt.Sprintf(`<div class="alert alert-info"><strong>Home Collection:</strong> Our team will visit you at: %s</div>`+"\n", evt.Address))
	} else {
		content.WriteString(`<div class="alert alert-warning"><strong>Lab Visit:</strong> Please visit our lab for sample collection</div>` + "\n")
	}
	content.WriteString(fmt.Sprintf(`<a href="%s/test-bookings/%s" class="button">View Booking Details</a>`+"\n", t.appURL, evt.BookingID))

	var textExtras strings.Builder
	if evt.PreferredDate != nil {
		textExtras.WriteString(fmt.Sprintf("Preferred Date: %s\n", formatLongDate(*evt.PreferredDate)))
	}
	if evt.PreferredTime != "" {
		textExtras.WriteString(fmt.Sprintf("Preferred Time: %s\n", evt.PreferredTime))
	}
	collection := "Please visit our lab for sample collection"
	if evt.IsHomeCollection {
		collection = fmt.Sprintf("Home Collection Address: %s", evt.Address)
	}

	text := fmt.Sprintf(`Your Test Booking is Confirmed!

Booking ID: %s

Tests Ordered:
%s

Total: %s

%s%s

View details: %s/test-bookings/%s`,
		evt.BookingID,
		strings.Join(lines, "\n"),
		formatINR(evt.TotalAmount),
		textExtras.String(),
		collection,
		t.appURL, evt.BookingID,
	)

	return RenderedEmail{
		Subject: subject,
		HTML:    t.wrapInLayout(content.String()),
		Text:    text,
	}
}

// PaymentSuccessEmail renders the post-capture payment confirmation.
func (t *TemplateSet) PaymentSuccessEmail(evt PaymentEvent) RenderedEmail {
	subject := fmt.Sprintf("Payment Confirmed - %s", formatINR(evt.Amount))
	bookingLabel := "Doctor Appointment"
	bookingPhrase := "appointment"
	if evt.BookingType == BookingKindTestBooking {
		bookingLabel = "Test Booking"
		bookingPhrase = "test booking"
	}

	var content strings.Builder
	content.WriteString("<h2>Payment Successful!</h2>\n")
	content.WriteString(`<div class="alert alert-success"><strong>Your payment has been processed successfully.</strong></div>` + "\n")
	content.WriteString(`<table style="width: 100%; margin: 20px 0;">` + "\n")
	content.WriteString(detailRow("Amount Paid", formatINR(evt.Amount)))
	content.WriteString(detailRow("Payment ID", evt.PaymentID))
	content.WriteString(detailRow("Booking Type", bookingLabel))
	content.WriteString("</table>\n")
	content.WriteString(fmt.Sprintf("<p>Your %s is now confirmed and we'll contact you with further details.</p>\n", bookingPhrase))

	text := fmt.Sprintf(`Payment Successful!

Amount Paid: %s
Payment ID: %s
Booking Type: %s

Your %s is now confirmed and we'll contact you with further details.`,
		formatINR(evt.Amount), evt.PaymentID, bookingLabel, bookingPhrase)

	return RenderedEmail{
		Subject: subject,
		HTML:    t.wrapInLayout(content.String()),
		Text:    text,
	}
}

// AppointmentReminderEmail renders the pre-appointment reminder; wording
// varies only in the stated hours until the appointment.
func (t *TemplateSet) AppointmentReminderEmail(evt AppointmentEvent, hoursUntil int) RenderedEmail {
	subject := fmt.Sprintf("Reminder: Appointment with Dr. %s in %d hours", evt.DoctorName, hoursUntil)
	date := formatLongDate(evt.AppointmentDate)

	var content strings.Builder
	content.WriteString("<h2>Appointment Reminder</h2>\n")
	content.WriteString(fmt.Sprintf(`<div class="alert alert-warning"><strong>Your appointment is in %d hours!</strong></div>`+"\n", hoursUntil))
	content.WriteString(`<table style="width: 100%; margin: 20px 0;">` + "\n")
	content.WriteString(detailRow("Doctor", fmt.Sprintf("Dr. %s (%s)", evt.DoctorName, evt.DoctorSpecialization)))
	content.WriteString(detailRow("Date &amp; Time", fmt.Sprintf("%s at %s", date, evt.TimeSlot)))
	content.WriteString("</table>\n")
	content.WriteString("<p>Please arrive 15 minutes before your scheduled time.</p>\n")

	text := fmt.Sprintf(`Appointment Reminder

Your appointment is in %d hours!

Doctor: Dr. %s (%s)
Date & Time: %s at %s

Please arrive 15 minutes before your scheduled time.`,
		hoursUntil, evt.DoctorName, evt.DoctorSpecialization, date, evt.TimeSlot)

	return RenderedEmail{
		Subject: subject,
		HTML:    t.wrapInLayout(content.String()),
		Text:    text,
	}
}

// NewBookingAlertEmail renders the internal staff alert for a fresh
// booking of either kind.
func (t *TemplateSet) NewBookingAlertEmail(kind BookingKind, patientName, bookingID string) RenderedEmail {
	kindLabel := "Appointment"
	adminPath := "appointments"
	phrase := "appointment"
	if kind == BookingKindTestBooking {
		kindLabel = "Test Booking"
		adminPath = "test-bookings"
		phrase = "test booking"
	}
	subject := fmt.Sprintf("New %s - %s", kindLabel, patientName)

	var content strings.Builder
	content.WriteString(fmt.Sprintf("<h2>New %s Alert</h2>\n", kindLabel))
	content.WriteString(fmt.Sprintf(`<div class="alert alert-info">A new %s has been made.</div>`+"\n", phrase))
	content.WriteString(`<table style="width: 100%; margin: 20px 0;">` + "\n")
	content.WriteString(detailRow("Patient", patientName))
	content.WriteString(detailRow("Booking ID", bookingID))
	content.WriteString("</table>\n")
	content.WriteString(fmt.Sprintf(`<a href="%s/admin/%s" class="button">View in Admin Panel</a>`+"\n", t.appURL, adminPath))

	text := fmt.Sprintf(`New %s Alert

Patient: %s
Booking ID: %s

View in admin panel: %s/admin/%s`, kindLabel, patientName, bookingID, t.appURL, adminPath)

	return RenderedEmail{
		Subject: subject,
		HTML:    t.wrapInLayout(content.String()),
		Text:    text,
	}
}

// TestEmail renders the administrative self-test message. sentAt is a
// parameter so rendering stays deterministic.
func (t *TemplateSet) TestEmail(sentAt time.Time) RenderedEmail {
	stamp := sentAt.Format("January 2, 2006 at 3:04 PM")
	content := fmt.Sprintf(`<h2>Test Email</h2>
<p>This is a test email to verify the notification system is working correctly.</p>
<p>Sent at: %s</p>
`, stamp)
	text := fmt.Sprintf("Test Email\n\nThis is a test email to verify the notification system is working correctly.\n\nSent at: %s", stamp)
	return RenderedEmail{
		Subject: fmt.Sprintf("Test Email from %s", t.appName),
		HTML:    t.wrapInLayout(content),
		Text:    text,
	}
}

// AppointmentConfirmationSMS renders the confirmation text message.
func (t *TemplateSet) AppointmentConfirmationSMS(evt AppointmentEvent) string {
	return renderTemplate(
		"Appointment confirmed! Dr. {{doctorName}}, {{date}} at {{timeSlot}}. ID: {{appointmentId}}. Arrive 15 mins early.",
		map[string]string{
			"doctorName":    evt.DoctorName,
			"date":          formatLongDate(evt.AppointmentDate),
			"timeSlot":      evt.TimeSlot,
			"appointmentId": shortID(evt.AppointmentID, 8),
		})
}

// TestBookingConfirmationSMS renders the test-booking text message,
// summarizing the test list to keep the message short.
func (t *TemplateSet) TestBookingConfirmationSMS(evt TestBookingEvent) string {
	names := make([]string, 0, 2)
	for i, item := range evt.Tests {
		if i == 2 {
			break
		}
		names = append(names, item.Name)
	}
	moreTests := ""
	if len(evt.Tests) > 2 {
		moreTests = fmt.Sprintf(" +%d more", len(evt.Tests)-2)
	}
	collection := "Visit lab for collection."
	if evt.IsHomeCollection {
		collection = "Home collection arranged."
	}
	return renderTemplate(
		"Test booking confirmed! {{tests}}{{moreTests}}. Total: {{amount}}. ID: {{bookingId}}. {{collectionType}}",
		map[string]string{
			"tests":          strings.Join(names, ", "),
			"moreTests":      moreTests,
			"amount":         formatINR(evt.TotalAmount),
			"bookingId":      shortID(evt.BookingID, 8),
			"collectionType": collection,
		})
}

// PaymentSuccessSMS renders the payment confirmation text message.
func (t *TemplateSet) PaymentSuccessSMS(evt PaymentEvent) string {
	phrase := "appointment"
	if evt.BookingType == BookingKindTestBooking {
		phrase = "test booking"
	}
	return renderTemplate(
		"Payment successful! {{amount}} paid for {{bookingType}}. Payment ID: {{paymentId}}. Your booking is confirmed.",
		map[string]string{
			"amount":      formatINR(evt.Amount),
			"bookingType": phrase,
			"paymentId":   shortID(evt.PaymentID, 12),
		})
}

// AppointmentReminderSMS renders the reminder text message.
func (t *TemplateSet) AppointmentReminderSMS(evt AppointmentEvent, hoursUntil int) string {
	return renderTemplate(
		"Reminder: Appointment with Dr. {{doctorName}} in {{hours}}h on {{date}} at {{timeSlot}}. Arrive 15 mins early.",
		map[string]string{
			"doctorName": evt.DoctorName,
			"hours":      fmt.Sprintf("%d", hoursUntil),
			"date":       formatLongDate(evt.AppointmentDate),
			"timeSlot":   evt.TimeSlot,
		})
}

// TestSMS renders the administrative self-test text message.
func (t *TemplateSet) TestSMS(sentAt time.Time) string {
	return fmt.Sprintf("Test SMS from %s. Sent at %s", t.appName, sentAt.Format("January 2, 2006 at 3:04 PM"))
}

// renderTemplate substitutes every occurrence of each {{key}} token.
func renderTemplate(tmpl string, vars map[string]string) string {
	out := tmpl
	for key, value := range vars {
		out = strings.ReplaceAll(out, "{{"+key+"}}", value)
	}
	return out
}

func detailRow(label, value string) string {
	return fmt.Sprintf(
		`<tr><td style="padding: 8px 0; border-bottom: 1px solid #e5e7eb;"><strong>%s:</strong></td><td style="padding: 8px 0; border-bottom: 1px solid #e5e7eb;">%s</td></tr>`+"\n",
		label, value)
}

// formatINR renders whole-rupee amounts the way the rest of the system
// displays money.
func formatINR(amount int) string {
	return fmt.Sprintf("₹%d", amount)
}

func formatLongDate(t time.Time) string {
	return t.Format("January 2, 2006")
}

func shortID(id string, n int) string {
	if len(id) <= n {
		return id
	}
	return id[:n]
}
