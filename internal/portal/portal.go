// Package portal implements the fire-and-forget acknowledgements of the
// login, signup, approval, blacklist and contact forms.
package portal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/authentiq/portal/internal/catalog"
	"github.com/authentiq/portal/internal/models"
)

// ErrUnknownPortal is returned for a portal that does not offer the action.
var ErrUnknownPortal = errors.New("unknown portal")

// Portal is one of the page groups of the site.
type Portal string

const (
	Institution Portal = "institution"
	Verifier    Portal = "verifier"
	Admin       Portal = "admin"
)

// Ack is what the page shows after a form is submitted.
type Ack struct {
	Notification models.Notification `json:"notification"`
	Redirect     string              `json:"redirect,omitempty"`
}

// Desk answers form submissions with canned acknowledgements.
type Desk struct {
	catalog catalog.Catalog
	log     *slog.Logger
}

// NewDesk creates an acknowledgement desk backed by the sample catalog.
func NewDesk(c catalog.Catalog, logger *slog.Logger) *Desk {
	if logger == nil {
		logger = slog.Default()
	}
	return &Desk{catalog: c, log: logger.With("component", "portal")}
}

// Login acknowledges a login form. Credentials are never checked.
func (d *Desk) Login(p Portal) (Ack, error) {
	switch p {
	case Institution:
		return Ack{
			Notification: models.Info("Login Successful!", "Welcome back to your institution dashboard."),
			Redirect:     "/institution/dashboard",
		}, nil
	case Verifier:
		return Ack{
			Notification: models.Info("Login Successful!", "Welcome to your verifier dashboard."),
			Redirect:     "/verifier/dashboard",
		}, nil
	case Admin:
		return Ack{
			Notification: models.Info("Admin Login Successful!", "Welcome to the admin dashboard."),
			Redirect:     "/admin/approval",
		}, nil
	default:
		return Ack{}, fmt.Errorf("login to %q: %w", p, ErrUnknownPortal)
	}
}

// Signup acknowledges a signup form. Admins cannot sign up.
func (d *Desk) Signup(p Portal) (Ack, error) {
	switch p {
	case Institution:
		return Ack{
			Notification: models.Info("Application Submitted!",
				"Your account requires Admin approval. We'll review your approval letter and contact you within 24 hours."),
		}, nil
	case Verifier:
		return Ack{
			Notification: models.Info("Account Created!", "Welcome to AuthentiQ. You can now start verifying documents."),
			Redirect:     "/verifier/dashboard",
		}, nil
	default:
		return Ack{}, fmt.Errorf("signup to %q: %w", p, ErrUnknownPortal)
	}
}

// Logout sends the user back to the landing page.
func (d *Desk) Logout() Ack {
	return Ack{Redirect: "/"}
}

// Approve acknowledges approval of a pending institution.
func (d *Desk) Approve(ctx context.Context, id string) (Ack, error) {
	inst, err := d.catalog.FindApproval(ctx, id)
	if err != nil {
		return Ack{}, err
	}
	d.log.Info("institution approved", "id", id)
	return Ack{Notification: models.Info("Institution Approved!",
		fmt.Sprintf("%s has been approved and can now access the system.", inst.InstitutionName))}, nil
}

// Reject acknowledges rejection of a pending institution.
func (d *Desk) Reject(ctx context.Context, id string) (Ack, error) {
	inst, err := d.catalog.FindApproval(ctx, id)
	if err != nil {
		return Ack{}, err
	}
	d.log.Info("institution rejected", "id", id)
	return Ack{Notification: models.Destructive("Application Rejected",
		fmt.Sprintf("%s's application has been rejected.", inst.InstitutionName))}, nil
}

// Recheck acknowledges a manual review request for a flagged document.
func (d *Desk) Recheck(ctx context.Context, id string) (Ack, error) {
	if _, err := d.catalog.FindBlacklistEntry(ctx, id); err != nil {
		return Ack{}, err
	}
	return Ack{Notification: models.Info("Recheck Initiated",
		fmt.Sprintf("Document %s has been queued for manual review.", id))}, nil
}

// ConfirmBlacklist acknowledges permanent flagging of a document.
func (d *Desk) ConfirmBlacklist(ctx context.Context, id string) (Ack, error) {
	if _, err := d.catalog.FindBlacklistEntry(ctx, id); err != nil {
		return Ack{}, err
	}
	return Ack{Notification: models.Info("Document Blacklisted",
		fmt.Sprintf("Document %s has been permanently flagged in the system.", id))}, nil
}

// Contact acknowledges the contact form.
func (d *Desk) Contact() Ack {
	return Ack{Notification: models.Info("Message Sent!", "Thank you for contacting us. We'll get back to you soon.")}
}
