package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-catalog/config"
	"github.com/oksasatya/go-ddd-catalog/pkg/mailer"
	mailtpl "github.com/oksasatya/go-ddd-catalog/pkg/mailer/templates"
)

type verdict int

const (
	ack verdict = iota
	requeue
	drop
)

func (v verdict) String() string {
	switch v {
	case ack:
		return "ack"
	case requeue:
		return "requeue"
	default:
		return "drop"
	}
}

type worker struct {
	cfg    *config.Config
	sender mailer.Sender // nil when MAIL_SEND_ENABLED=false
	logger *logrus.Logger
}

// handle processes one queue message. Malformed jobs are dropped; a failed
// send is requeued once and dropped on redelivery.
func (w *worker) handle(ctx context.Context, body []byte, redelivered bool) verdict {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		w.logger.WithError(err).Warn("bad message")
		return drop
	}
	log := w.logger.WithFields(logrus.Fields{"event": job.Event, "to": job.To, "template": job.Template})

	if job.Template == mailtpl.Welcome {
		job.Data = w.welcomeData(job)
	}
	subject, text, html, err := job.Resolve()
	if err != nil {
		log.WithError(err).Warn("cannot render email")
		return drop
	}

	if w.sender == nil {
		log.WithField("subject", subject).Info("mail sending disabled; skipping")
		return ack
	}

	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := w.sender.Send(c, job.To, subject, text, html); err != nil {
		if redelivered {
			log.WithError(err).Error("send failed again; dropping")
			return drop
		}
		log.WithError(err).Warn("send failed; requeueing")
		return requeue
	}
	log.Info("email sent")
	return ack
}

// welcomeData fills the company fields from config. Keys already present in
// the job win over config, except RegisteredAt which is re-parsed.
func (w *worker) welcomeData(job mailer.EmailJob) map[string]any {
	var opts []mailtpl.Option
	if s, ok := job.Data["RegisteredAt"].(string); ok {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			opts = append(opts, mailtpl.WithRegisteredAt(t))
		}
	}
	data := mailtpl.NewWelcomeData(w.cfg, job.To, opts...)
	for k, v := range job.Data {
		if k == "RegisteredAt" {
			continue
		}
		data[k] = v
	}
	return data
}
