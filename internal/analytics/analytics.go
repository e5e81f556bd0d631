// Package analytics computes the management dashboard totals.
package analytics

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/skyproperties/sky-backend/internal/estate/domain"
	"github.com/skyproperties/sky-backend/internal/logging"
)

type Lister[T any] interface {
	ListAll(ctx context.Context) ([]T, error)
}

// Report holds collection totals and status breakdowns.
type Report struct {
	TotalProperties int                         `json:"totalProperties"`
	TotalUnits      int                         `json:"totalUnits"`
	TotalTickets    int                         `json:"totalTickets"`
	TotalPayments   int                         `json:"totalPayments"`
	TotalRevenue    float64                     `json:"totalRevenue"`
	UnitsByStatus   map[domain.UnitStatus]int   `json:"unitsByStatus"`
	TicketsByStatus map[domain.TicketStatus]int `json:"ticketsByStatus"`
	OccupancyRate   float64                     `json:"occupancyRate"`
}

type Service struct {
	properties Lister[domain.Property]
	units      Lister[domain.Unit]
	tickets    Lister[domain.Ticket]
	payments   Lister[domain.Payment]
}

func NewService(
	properties Lister[domain.Property],
	units Lister[domain.Unit],
	tickets Lister[domain.Ticket],
	payments Lister[domain.Payment],
) *Service {
	return &Service{properties: properties, units: units, tickets: tickets, payments: payments}
}

// Compute reads the four collections concurrently. The first failure
// cancels the other reads and is returned.
func (s *Service) Compute(ctx context.Context) (Report, error) {
	var (
		properties []domain.Property
		units      []domain.Unit
		tickets    []domain.Ticket
		payments   []domain.Payment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { properties, err = s.properties.ListAll(gctx); return })
	g.Go(func() (err error) { units, err = s.units.ListAll(gctx); return })
	g.Go(func() (err error) { tickets, err = s.tickets.ListAll(gctx); return })
	g.Go(func() (err error) { payments, err = s.payments.ListAll(gctx); return })

	if err := g.Wait(); err != nil {
		logging.Op(ctx, "analytics.compute").WithError(err).Error("analytics fetch failed")
		return Report{}, err
	}

	return Summarize(properties, units, tickets, payments), nil
}

// Summarize builds a report from already loaded collections.
func Summarize(properties []domain.Property, units []domain.Unit, tickets []domain.Ticket, payments []domain.Payment) Report {
	r := Report{
		TotalProperties: len(properties),
		TotalUnits:      len(units),
		TotalTickets:    len(tickets),
		TotalPayments:   len(payments),
		UnitsByStatus:   make(map[domain.UnitStatus]int),
		TicketsByStatus: make(map[domain.TicketStatus]int),
	}

	for _, p := range payments {
		r.TotalRevenue += p.Amount
	}
	for _, u := range units {
		r.UnitsByStatus[u.Status]++
	}
	for _, t := range tickets {
		r.TicketsByStatus[t.Status]++
	}
	if len(units) > 0 {
		r.OccupancyRate = float64(r.UnitsByStatus[domain.UnitOccupied]) / float64(len(units)) * 100
	}
	return r
}
