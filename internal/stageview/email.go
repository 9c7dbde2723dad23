package stageview

import (
	"fmt"
	"strings"

	"stealthcompany.com/opsboard/internal/ticket"
)

// Email is a draft message to the client. Nothing is sent.
type Email struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

const signature = "Best regards,\nUSPB Operations Team"

// EmailDraft writes the document request behind a "draft email"
// suggestion. Suggestions about a passport get the passport template;
// everything else gets a generic document request. The recipient is the
// first client address on the ticket's thread.
func EmailDraft(t ticket.Ticket, s ticket.AISuggestion) Email {
	e := Email{To: clientAddress(t)}

	if strings.Contains(strings.ToLower(s.Message), "passport") {
		e.Subject = "Request for Missing Passport - Account Opening"
		e.Body = fmt.Sprintf(`Dear %s,

To complete your account opening process, we need a clear, scanned copy of your government-issued passport.

Please upload this document at your earliest convenience through our secure portal, or email it directly to our operations team.

If you have any questions or need assistance with the upload process, please don't hesitate to reach out.

%s`, t.ClientName, signature)
		return e
	}

	e.Subject = "Document Request - Account Opening"
	e.Body = fmt.Sprintf(`Dear %s,

We are reviewing your account opening application and need additional documentation to proceed.

Please provide the requested documents at your earliest convenience.

%s`, t.ClientName, signature)
	return e
}

func clientAddress(t ticket.Ticket) string {
	for _, m := range t.Emails {
		if m.Type == ticket.EmailClient {
			return m.From
		}
	}
	return ""
}
