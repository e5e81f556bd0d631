package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/skyproperties/sky-backend/internal/access"
	"github.com/skyproperties/sky-backend/internal/api/http/respond"
	"github.com/skyproperties/sky-backend/internal/auth"
	"github.com/skyproperties/sky-backend/internal/estate/domain"
	"github.com/skyproperties/sky-backend/internal/search"
)

// Summary is the dashboard card data of one caller.
type Summary struct {
	Role             access.Role      `json:"role"`
	Profile          *domain.User     `json:"profile"`
	Navigation       []access.NavItem `json:"navigation"`
	LinkedProperties int              `json:"linkedProperties"`
	OwnedUnits       int              `json:"ownedUnits"`
	RentedUnits      int              `json:"rentedUnits"`
	OpenTickets      int              `json:"openTickets"`
}

func (h *Handler) dashboard(c *gin.Context) {
	s := auth.SessionFrom(c)
	uid := s.Principal.UID()

	sum := Summary{Role: s.Role(), Profile: s.Profile, Navigation: access.Navigation(s.Role())}
	if s.Profile != nil {
		sum.LinkedProperties = len(s.Profile.LinkedProperties)
	}

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		units, err := h.units.ListByOwner(ctx, uid)
		sum.OwnedUnits = len(units)
		return err
	})
	g.Go(func() error {
		units, err := h.units.ListByTenant(ctx, uid)
		sum.RentedUnits = len(units)
		return err
	})
	g.Go(func() error {
		open, err := h.tickets.ListByStatus(ctx, domain.TicketOpen)
		if s.CanAccess(access.RoleManager) {
			sum.OpenTickets = len(open)
			return err
		}
		for _, t := range open {
			if t.CreatedBy == uid {
				sum.OpenTickets++
			}
		}
		return err
	})
	if err := g.Wait(); err != nil {
		respond.Fail(c, "dashboard.summary", err)
		return
	}

	respond.OK(c, http.StatusOK, gin.H{"summary": sum})
}

// publicProperties lists properties for the landing page. q searches name
// and city; city narrows to one city.
func (h *Handler) publicProperties(c *gin.Context) {
	items, err := h.properties.ListAll(c.Request.Context())
	if err != nil {
		respond.Fail(c, "public.properties", err)
		return
	}
	items = search.Filter(items, c.Query("q"), domain.Property.SearchFields)

	if city := strings.TrimSpace(c.Query("city")); city != "" {
		want := search.Fold(city)
		out := items[:0]
		for _, p := range items {
			if search.Fold(p.City) == want {
				out = append(out, p)
			}
		}
		items = out
	}

	for i := range items {
		items[i].ManagerID = ""
	}
	respond.OK(c, http.StatusOK, gin.H{"properties": items})
}
