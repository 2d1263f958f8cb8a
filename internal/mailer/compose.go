package mailer

import (
	"fmt"

	"clubhub/internal/dto"
)

const dateLayout = "Monday, 2 January 2006 at 15:04"

// Compose renders the mail sent for a notification. ok is false for kinds
// that produce no mail.
func Compose(siteName string, n dto.Notification) (msg Message, ok bool) {
	msg = Message{To: n.Email}
	greeting := "Hello"
	if n.Name != "" {
		greeting += " " + n.Name
	}

	switch n.Kind {
	case dto.NotifyRegistrationCreated:
		msg.Subject = fmt.Sprintf("Registration received: %s", n.EventTitle)
		msg.Body = fmt.Sprintf("%s,\n\nYour registration for %q on %s has been received. Its status is %s.",
			greeting, n.EventTitle, n.EventDate.Format(dateLayout), n.Status)
	case dto.NotifyRegistrationUpdated:
		msg.Subject = fmt.Sprintf("Registration %s: %s", n.Status, n.EventTitle)
		msg.Body = fmt.Sprintf("%s,\n\nYour registration for %q is now %s.", greeting, n.EventTitle, n.Status)
	case dto.NotifySubmissionCreated:
		msg.Subject = fmt.Sprintf("Submission received: %s", n.EventTitle)
		msg.Body = fmt.Sprintf("%s,\n\nWe have received your submission %q for %q.", greeting, n.Detail, n.EventTitle)
	case dto.NotifySubmissionReviewed:
		msg.Subject = fmt.Sprintf("Submission update: %s", n.EventTitle)
		msg.Body = fmt.Sprintf("%s,\n\nYour submission for %q is now %s.", greeting, n.EventTitle, n.Status)
		if n.Detail != "" {
			msg.Body += fmt.Sprintf("\nAward: %s.", n.Detail)
		}
	case dto.NotifyEventReminder:
		msg.Subject = fmt.Sprintf("Reminder: %s", n.EventTitle)
		msg.Body = fmt.Sprintf("%s,\n\n%q starts on %s. See you there!", greeting, n.EventTitle, n.EventDate.Format(dateLayout))
	case dto.NotifyContactReceived:
		msg.ReplyTo = n.ReplyTo
		msg.Subject = fmt.Sprintf("New message from %s", n.Name)
		msg.Body = fmt.Sprintf("%s <%s> wrote:\n\n%s", n.Name, n.ReplyTo, n.Detail)
	default:
		return Message{}, false
	}

	if siteName != "" {
		msg.Subject = "[" + siteName + "] " + msg.Subject
	}
	return msg, msg.To != ""
}
