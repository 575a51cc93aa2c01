package templates

import (
	"time"

	"github.com/oksasatya/go-ddd-catalog/config"
)

// Option pattern
type Option func(*EmailData)

func WithRegisteredAt(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.RegisteredAt = utc
		d.RegisteredAtText = utc.Format("02 January 2006, 15:04")
	}
}

// NewBaseEmailData fills the company fields from cfg, then applies opts.
func NewBaseEmailData(cfg *config.Config, typ, email string, opts ...Option) EmailData {
	d := EmailData{
		Email:          email,
		RecipientEmail: email,
		Type:           typ,

		CompanyName: cfg.CompanyName,
		AppName:     cfg.AppName,

		SupportURL: cfg.SupportURL,
		CatalogURL: cfg.CatalogURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewWelcomeData(cfg *config.Config, email string, opts ...Option) map[string]any {
	return ToMap(NewBaseEmailData(cfg, Welcome, email, opts...))
}
