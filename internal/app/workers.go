package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/fx"

	"github.com/Alijeyrad/hospital_backend/internal/service/notify"
	"github.com/Alijeyrad/hospital_backend/pkg/events"
)

// WorkerModule registers the NATS notification workers.
var WorkerModule = fx.Module("workers",
	fx.Invoke(RegisterWorkers),
)

// queueGroup spreads each event over the running API instances so a patient
// is notified once.
const queueGroup = "notify"

type WorkerParams struct {
	fx.In

	Lc       fx.Lifecycle
	NC       *nats.Conn `optional:"true"`
	Notifier *notify.Notifier
}

func RegisterWorkers(p WorkerParams) {
	if p.NC == nil {
		slog.Info("notification workers disabled, no NATS connection")
		return
	}

	var subs []*nats.Subscription
	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			for _, kind := range []events.Kind{events.Booked, events.Paid, events.Canceled, events.Rescheduled} {
				sub, err := p.NC.QueueSubscribe(events.Wildcard(kind), queueGroup, handler(p.Notifier))
				if err != nil {
					return err
				}
				subs = append(subs, sub)
			}
			slog.Info("notification workers started", "subscriptions", len(subs))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			for _, s := range subs {
				_ = s.Unsubscribe()
			}
			return nil
		},
	})
}

func handler(n *notify.Notifier) nats.MsgHandler {
	return func(msg *nats.Msg) {
		ev, err := events.Decode(msg.Data)
		if err != nil {
			slog.Warn("notify_worker: bad payload", "subject", msg.Subject, "error", err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := n.Handle(ctx, ev); err != nil {
			slog.Warn("notify_worker: delivery failed",
				"kind", ev.Kind, "appointment_id", ev.AppointmentID, "error", err)
		}
	}
}
