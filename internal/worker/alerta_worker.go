package worker

// alerta_worker.go
// Mails the configured address when a daily record is stored with a
// FALTANTE or EXCEDENTE status.

import (
	"context"
	"encoding/json"
	"fmt"

	"dinocars/internal/infra"
	"dinocars/internal/model"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// AlertaPayload is the job payload sent to QueueAlertas.
type AlertaPayload struct {
	RegistroID uint            `json:"registro_id"`
	Fecha      string          `json:"date"`
	Estado     string          `json:"status"`
	Diferencia decimal.Decimal `json:"difference"`
	Trabajador string          `json:"worker_name,omitempty"`
	EnviadoPor string          `json:"submitted_by"`
}

func NuevaAlerta(reg *model.RegistroDiario) AlertaPayload {
	p := AlertaPayload{
		RegistroID: reg.ID,
		Fecha:      reg.Fecha,
		Estado:     reg.Estado,
		Diferencia: reg.Diferencia,
		EnviadoPor: reg.EnviadoPor,
	}
	if reg.NombreTrabajador != nil {
		p.Trabajador = *reg.NombreTrabajador
	}
	return p
}

// Asunto is the mail subject line.
func (p AlertaPayload) Asunto() string {
	return fmt.Sprintf("[DinoCars] Caja %s el %s", p.Estado, p.Fecha)
}

// Cuerpo is the plain-text mail body.
func (p AlertaPayload) Cuerpo() string {
	trabajador := p.Trabajador
	if trabajador == "" {
		trabajador = "(sin nombre)"
	}
	return fmt.Sprintf(
		"Registro #%d del %s\nEstado: %s\nDiferencia: %s\nTrabajador: %s\nCargado por: %s\n",
		p.RegistroID, p.Fecha, p.Estado, infra.FormatPesos(p.Diferencia), trabajador, p.EnviadoPor,
	)
}

// Enviador sends one mail. Implemented by *infra.Mailer.
type Enviador interface {
	SendAlerta(to, subject, body, attachmentPath string) error
}

// AlertaWorker processes jobs from QueueAlertas.
type AlertaWorker struct {
	mailer  Enviador
	destino string
}

func NewAlertaWorker(mailer Enviador, destino string) *AlertaWorker {
	return &AlertaWorker{mailer: mailer, destino: destino}
}

// Process sends the alert, retrying with exponential backoff.
func (w *AlertaWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload AlertaPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("alerta_worker: invalid payload: %w", err)
	}

	err := withRetry(ctx, maxAttempts, func(attempt int) error {
		err := w.mailer.SendAlerta(w.destino, payload.Asunto(), payload.Cuerpo(), "")
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt+1).Uint("registro_id", payload.RegistroID).Msg("alerta_worker: send failed")
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("alerta_worker: %w", err)
	}
	log.Info().Uint("registro_id", payload.RegistroID).Str("to", w.destino).Msg("alerta_worker: alert sent")
	return nil
}
