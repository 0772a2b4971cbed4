package workers

import (
	"context"
	"fmt"
	"log"
	"time"

	"dmed/models"
	"dmed/notifier"

	"github.com/jinzhu/gorm"
)

// SLAScanResult resume uma varredura de SLA.
type SLAScanResult struct {
	Scanned  int64 `json:"scanned"`
	Urgent   int64 `json:"urgent"`
	Overdue  int64 `json:"overdue"`
	Notified int64 `json:"notified"`
}

// ScanSLA percorre os requerimentos abertos com prazo configurado,
// classifica cada um e dispara notificação pro responsável quando o
// prazo está próximo (urgent) ou estourado (overdue).
//
// A dedupe key por requerimento+classe evita avisar de novo dentro da
// janela padrão, então a rotina pode rodar com frequência sem spammar.
func ScanSLA(ctx context.Context, db *gorm.DB, dispatcher *notifier.Dispatcher) (*SLAScanResult, error) {
	var requests []models.Request
	if err := db.
		Where("status IN (?)", []string{models.REQUEST_STATUS_OPEN, models.REQUEST_STATUS_IN_PROGRESS}).
		Where("sla_deadline IS NOT NULL").
		Find(&requests).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	result := &SLAScanResult{Scanned: int64(len(requests))}

	for _, request := range requests {
		class := request.SLAClass(now)

		var event string
		switch class {
		case models.SLA_CLASS_URGENT:
			result.Urgent++
			event = models.NOTIFY_EVENT_SLA_URGENT
		case models.SLA_CLASS_OVERDUE:
			result.Overdue++
			event = models.NOTIFY_EVENT_SLA_OVERDUE
		default:
			continue
		}

		if request.OwnerID == 0 {
			continue
		}

		days, _ := request.DaysUntilDeadline(now)

		var title, body string
		if class == models.SLA_CLASS_URGENT {
			title = fmt.Sprintf("Prazo próximo: requerimento %s", request.Number)
			body = fmt.Sprintf("O requerimento %q vence em %d dia(s).", request.Subject, days)
		} else {
			title = fmt.Sprintf("Prazo estourado: requerimento %s", request.Number)
			body = fmt.Sprintf("O requerimento %q está %d dia(s) atrasado.", request.Subject, -days)
		}

		created, err := dispatcher.Dispatch(ctx, notifier.Event{
			Name:    event,
			Title:   title,
			Body:    body,
			ActorID: 0, // sistema
			UserIDs: []int64{request.OwnerID},
			Metadata: map[string]any{
				"request_id":     request.ID,
				"request_number": request.Number,
				"sla_class":      class,
				"days":           days,
			},
			DedupeKey: fmt.Sprintf("sla:%s:request:%d", class, request.ID),
		})
		if err != nil {
			log.Printf("sla scan: dispatch falhou request_id=%d err=%v", request.ID, err)
			continue
		}
		result.Notified += int64(len(created))
	}

	return result, nil
}

// StartSLAScanLoop roda ScanSLA no intervalo dado até o contexto fechar.
// Usado quando não há cron externo configurado.
func StartSLAScanLoop(ctx context.Context, db *gorm.DB, dispatcher *notifier.Dispatcher, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if result, err := ScanSLA(ctx, db, dispatcher); err != nil {
					log.Printf("sla scan: %v", err)
				} else {
					log.Printf("sla scan: scanned=%d urgent=%d overdue=%d notified=%d",
						result.Scanned, result.Urgent, result.Overdue, result.Notified)
				}
			}
		}
	}()
}
