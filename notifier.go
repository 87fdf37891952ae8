package main

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

const summaryAttachmentName = "distribution_details.pdf"

type Notifier struct {
	mailer Mailer
	log    *slog.Logger
}

func NewNotifier(mailer Mailer, logger *slog.Logger) *Notifier {
	return &Notifier{mailer: mailer, log: logger}
}

// SendDistributionEmails mails friends[i] their summary at friendEmails[i].
// All emails are sent concurrently and every send is awaited; if any of
// them fails the whole batch is reported as a *DeliveryError. Emails that
// did go out are not recalled.
func (n *Notifier) SendDistributionEmails(ctx context.Context, friends, friendEmails []string, distribution map[string]FriendSummary) error {
	if len(friends) != len(friendEmails) {
		return fmt.Errorf("%w: %d friends, %d emails", ErrMismatchedRecipients, len(friends), len(friendEmails))
	}

	errs := make([]error, len(friends))
	var g errgroup.Group
	for i := range friends {
		g.Go(func() error {
			errs[i] = n.sendSummary(ctx, friends[i], friendEmails[i], distribution[friends[i]])
			return errs[i]
		})
	}

	if err := g.Wait(); err == nil {
		n.log.InfoContext(ctx, "distribution emails sent", "count", len(friends))
		return nil
	}

	delivery := &DeliveryError{}
	for i, err := range errs {
		if err != nil {
			delivery.Failures = append(delivery.Failures, DeliveryFailure{Friend: friends[i], Email: friendEmails[i], Err: err})
		}
	}
	return delivery
}

func (n *Notifier) sendSummary(ctx context.Context, friend, email string, summary FriendSummary) error {
	content := RenderSummary(friend, summary)

	pdf, err := RenderPDF(content)
	if err != nil {
		return err
	}

	return n.mailer.Send(ctx, Email{
		To:      email,
		Subject: fmt.Sprintf("Money Distribution Details for %s", friend),
		Body:    content,
		Attachments: []Attachment{
			{Filename: summaryAttachmentName, Content: pdf},
		},
	})
}
