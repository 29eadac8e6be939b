package ngo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"

	"github.com/anna-sampada/spoilage-backend/internal/common"
)

// Donation carries the details forwarded to the NGO.
type Donation struct {
	NGOName       string `json:"ngo_name"`
	DonorContact  string `json:"donorContact"`
	FoodDetails   string `json:"foodDetails"`
	PickupAddress string `json:"pickupAddress"`
}

// Notifier emails donation alerts over SMTP.
type Notifier struct {
	client *mail.Client
	sender string
	logger *slog.Logger
}

func NewNotifier(cfg common.MailConfig, logger *slog.Logger) (*Notifier, error) {
	if cfg.Sender == "" || cfg.Password == "" {
		return nil, fmt.Errorf("email sender and app password are required")
	}
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Sender),
		mail.WithPassword(cfg.Password),
	)
	if err != nil {
		return nil, fmt.Errorf("create mail client: %w", err)
	}
	return &Notifier{client: client, sender: cfg.Sender, logger: logger}, nil
}

// Notify sends the donation alert. The alert goes to the service inbox; NGOs
// are not onboarded with their own addresses yet.
func (n *Notifier) Notify(ctx context.Context, d Donation) error {
	msg := mail.NewMsg()
	if err := msg.From(n.sender); err != nil {
		return err
	}
	if err := msg.To(n.sender); err != nil {
		return err
	}
	msg.Subject(fmt.Sprintf("New Food Donation Alert from Anna Sampada for %s!", d.NGOName))
	msg.SetBodyString(mail.TypeTextPlain, donationBody(d))

	if err := n.client.DialAndSendWithContext(ctx, msg); err != nil {
		n.logger.Error("ngo.notify.failed", "ngo", d.NGOName, "error", err)
		return common.UnavailableErrorf("failed to send notification email")
	}
	n.logger.Info("ngo.notify.ok", "ngo", d.NGOName)
	return nil
}

func donationBody(d Donation) string {
	return fmt.Sprintf(`Hello %s,
A donor has offered a food donation via the Anna Sampada app.

--- DONATION DETAILS ---
Food: %s
Pickup Address: %s
Donor Contact (Phone/Email): %s

Please coordinate pickup directly with the donor.
Thank you,
The Anna Sampada Team
`, d.NGOName, d.FoodDetails, d.PickupAddress, d.DonorContact)
}
