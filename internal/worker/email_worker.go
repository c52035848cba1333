package worker

// email_worker.go
// Processes email jobs from QueueEmail: the daily closing report to the admin
// address, with an optional attachment.

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/Ertugrul2020/pos/internal/infra"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail        string `json:"to_email"`
	Subject        string `json:"subject"`
	Body           string `json:"body"`
	AttachmentPath string `json:"attachment_path"`
}

type EmailWorker struct {
	mailer *infra.Mailer
}

func NewEmailWorker(mailer *infra.Mailer) *EmailWorker {
	return &EmailWorker{mailer: mailer}
}

// Process delivers one queued email. A returned error sends the job to the DLQ.
func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return err
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email, skipping")
		return errors.New("email job without recipient")
	}

	var err error
	if payload.AttachmentPath != "" {
		err = w.mailer.SendWithAttachment(payload.ToEmail, payload.Subject, payload.Body, payload.AttachmentPath)
	} else {
		err = w.mailer.Send(payload.ToEmail, payload.Subject, payload.Body)
	}
	if err != nil {
		log.Error().Err(err).Str("to", payload.ToEmail).Msg("email_worker: failed to send email")
		return err
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: mail sent")
	return nil
}
