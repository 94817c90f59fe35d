package mailer

import (
	"fmt"
	"log"

	"github.com/artconnect/backend/internal/models"
	"gopkg.in/gomail.v2"
)

// Mailer sends purchase lifecycle emails over SMTP. It is a best-effort side
// channel: the order mutation is committed before any send is attempted, and
// a failed send is logged, never retried and never surfaced to the user.
type Mailer struct {
	dialer  *gomail.Dialer
	from    string
	enabled bool
}

// New creates a Mailer. When the SMTP settings are incomplete the mailer is
// disabled and every send becomes a logged no-op.
func New(host string, port int, user, pass, fromName string) *Mailer {
	if host == "" || user == "" || pass == "" {
		log.Println("Email service not configured. Set EMAIL_HOST, EMAIL_USER, and EMAIL_PASS in .env")
		return &Mailer{enabled: false}
	}
	return &Mailer{
		dialer:  gomail.NewDialer(host, port, user, pass),
		from:    fmt.Sprintf("%q <%s>", fromName, user),
		enabled: true,
	}
}

// Enabled reports whether the mailer has a working SMTP configuration.
func (m *Mailer) Enabled() bool {
	return m.enabled
}

func (m *Mailer) send(to, subject, body string) error {
	if !m.enabled {
		log.Printf("Email service not available, skipping %q to %s", subject, to)
		return nil
	}
	if to == "" {
		return fmt.Errorf("recipient email missing")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	return m.dialer.DialAndSend(msg)
}

// SendPurchaseNotification emails the artist about a new purchase request.
func (m *Mailer) SendPurchaseNotification(p *models.Purchase) error {
	subject := fmt.Sprintf("New Purchase Request: %s", p.ArtworkTitle)
	body := fmt.Sprintf(`<h2>New Purchase Request</h2>
<p>Hello!</p>
<p>You have received a new purchase request for your artwork:</p>
<h3>%s</h3>
<p><strong>Price:</strong> %.2f</p>
<h3>Buyer Details:</h3>
<ul>
  <li><strong>Name:</strong> %s</li>
  <li><strong>Email:</strong> %s</li>
  <li><strong>Phone:</strong> %s</li>
</ul>
<p>Please log in to ArtConnect to view the complete purchase request and update its status.</p>`,
		p.ArtworkTitle, p.Price, p.BuyerName, p.BuyerEmail, p.BuyerPhone)
	return m.send(p.ArtistEmail, subject, body)
}

// SendPurchaseConfirmation emails the buyer that their request was submitted.
func (m *Mailer) SendPurchaseConfirmation(p *models.Purchase) error {
	subject := fmt.Sprintf("Purchase Request Submitted: %s", p.ArtworkTitle)
	body := fmt.Sprintf(`<h2>Purchase Request Submitted</h2>
<p>Hi %s,</p>
<p>Your purchase request for <strong>%s</strong> by %s has been submitted.</p>
<p><strong>Price:</strong> %.2f</p>
<p>The artist will contact you soon to arrange payment and delivery.</p>`,
		p.BuyerName, p.ArtworkTitle, p.ArtistName, p.Price)
	return m.send(p.BuyerEmail, subject, body)
}

// SendStatusUpdate emails the counterpart actor about an accepted transition.
func (m *Mailer) SendStatusUpdate(to, name string, p *models.Purchase, status models.OrderStatus) error {
	subject := StatusSubject(status, p.ArtworkTitle)
	body := fmt.Sprintf(`<h2>Order Update</h2>
<p>Hi %s,</p>
<p>%s</p>
<p>Artwork: <strong>%s</strong></p>`, name, StatusMessage(status), p.ArtworkTitle)
	return m.send(to, subject, body)
}

// DispatchStatusUpdate notifies the party who did NOT perform the transition,
// logging any failure. Call it in a goroutine after the status is committed.
func (m *Mailer) DispatchStatusUpdate(p *models.Purchase, status models.OrderStatus, actor models.Actor) {
	to, name := p.BuyerEmail, p.BuyerName
	if actor == models.ActorBuyer {
		to, name = p.ArtistEmail, p.ArtistName
	}
	if err := m.SendStatusUpdate(to, name, p, status); err != nil {
		log.Printf("Status update email failed for purchase %s (%s): %v", p.ID.Hex(), status, err)
	}
}

// DispatchPurchaseEmails notifies both parties about a newly created order,
// logging any failure. Call it in a goroutine after the order is committed.
func (m *Mailer) DispatchPurchaseEmails(p *models.Purchase) {
	if err := m.SendPurchaseNotification(p); err != nil {
		log.Printf("Purchase notification email to artist failed for purchase %s: %v", p.ID.Hex(), err)
	}
	if err := m.SendPurchaseConfirmation(p); err != nil {
		log.Printf("Purchase confirmation email to buyer failed for purchase %s: %v", p.ID.Hex(), err)
	}
}

// StatusSubject returns the subject line for a status update email.
func StatusSubject(status models.OrderStatus, artworkTitle string) string {
	switch status {
	case models.StatusConfirmed:
		return fmt.Sprintf("Order Confirmed: %s", artworkTitle)
	case models.StatusShipped:
		return fmt.Sprintf("Order Shipped: %s", artworkTitle)
	case models.StatusDeliveryConfirmationPending:
		return fmt.Sprintf("Please Confirm Delivery: %s", artworkTitle)
	case models.StatusDelivered:
		return fmt.Sprintf("Order Delivered: %s", artworkTitle)
	case models.StatusCancelled:
		return fmt.Sprintf("Order Cancelled: %s", artworkTitle)
	}
	return fmt.Sprintf("Order Update: %s", artworkTitle)
}

// StatusMessage returns the body line for a status update email.
func StatusMessage(status models.OrderStatus) string {
	switch status {
	case models.StatusConfirmed:
		return "The artist has confirmed your order."
	case models.StatusShipped:
		return "Your order is on its way."
	case models.StatusDeliveryConfirmationPending:
		return "The artist has marked your order as delivered. Please confirm you received it."
	case models.StatusDelivered:
		return "The buyer has confirmed delivery. The order is complete."
	case models.StatusCancelled:
		return "The order has been cancelled."
	}
	return "Your order status has changed."
}
