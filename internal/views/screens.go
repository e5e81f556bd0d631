package views

import (
	"context"
	"strconv"
	"sync"

	"github.com/skyproperties/sky-backend/internal/access"
	"github.com/skyproperties/sky-backend/internal/analytics"
	"github.com/skyproperties/sky-backend/internal/estate/domain"
	"github.com/skyproperties/sky-backend/internal/estate/repository"
	"github.com/skyproperties/sky-backend/internal/events"
	"github.com/skyproperties/sky-backend/internal/logging"
)

// Confirm asks the user before a destructive action.
type Confirm func(prompt string) bool

// confirmDelete deletes id only when confirm accepts the prompt.
func confirmDelete(ctx context.Context, confirm Confirm, prompt, id string, del func(context.Context, string) error, refresh func(context.Context) error) (bool, error) {
	if confirm == nil || !confirm(prompt) {
		return false, nil
	}
	if err := del(ctx, id); err != nil {
		logging.Op(ctx, "views.delete").WithError(err).WithField("id", id).Warn("delete failed")
		return false, err
	}
	return true, refresh(ctx)
}

// Properties

// PropertyDraft is the property form. On edit an empty manager id keeps
// the stored manager unless ClearManager is set.
type PropertyDraft struct {
	Input        repository.PropertyInput
	Files        repository.PropertyFiles
	ClearManager bool
}

type PropertiesScreen struct {
	*List[domain.Property]
	Modal *Modal[PropertyDraft]
	repo  *repository.Properties
}

func NewPropertiesScreen(repo *repository.Properties, bus events.Bus) *PropertiesScreen {
	s := &PropertiesScreen{repo: repo}
	s.List = NewList(domain.CollectionProperties, repo.ListAll, domain.Property.SearchFields, bus)
	s.Modal = NewModal("properties",
		func(ctx context.Context, d PropertyDraft) error {
			_, err := repo.Create(ctx, d.Input, d.Files)
			return err
		},
		func(ctx context.Context, id string, d PropertyDraft) error {
			patch := repository.PropertyPatch{
				Name:        &d.Input.Name,
				City:        &d.Input.City,
				Description: &d.Input.Description,
			}
			if d.Input.ManagerID != "" || d.ClearManager {
				manager := d.Input.ManagerID
				if d.ClearManager {
					manager = ""
				}
				patch.ManagerID = &manager
			}
			_, err := repo.Update(ctx, id, patch, d.Files)
			return err
		},
		s.Sync,
	)
	return s
}

// Edit opens the modal on an existing property.
func (s *PropertiesScreen) Edit(p domain.Property) {
	s.Modal.OpenEdit(p.ID, PropertyDraft{Input: repository.PropertyInput{
		Name:        p.Name,
		City:        p.City,
		Description: p.Description,
		ManagerID:   p.ManagerID,
	}})
}

func (s *PropertiesScreen) Delete(ctx context.Context, id string, confirm Confirm) (bool, error) {
	return confirmDelete(ctx, confirm, "Delete this property?", id, s.repo.Delete, s.Sync)
}

// Units

// UnitRow is a unit together with the name of its property.
type UnitRow struct {
	domain.Unit
	PropertyName string `json:"propertyName"`
}

type UnitsScreen struct {
	*List[UnitRow]
	Modal *Modal[repository.UnitForm]
	repo  *repository.Units
}

func NewUnitsScreen(units *repository.Units, properties *repository.Properties, bus events.Bus) *UnitsScreen {
	s := &UnitsScreen{repo: units}
	fetch := func(ctx context.Context) ([]UnitRow, error) {
		return UnitRows(ctx, units, properties)
	}
	s.List = NewList(domain.CollectionUnits, fetch, UnitRow.SearchFields, bus)
	s.Modal = NewModal("units",
		func(ctx context.Context, f repository.UnitForm) error {
			in, err := repository.ParseUnitForm(f)
			if err != nil {
				return err
			}
			_, err = units.Create(ctx, in)
			return err
		},
		func(ctx context.Context, id string, f repository.UnitForm) error {
			in, err := repository.ParseUnitForm(f)
			if err != nil {
				return err
			}
			_, err = units.Update(ctx, id, in.Patch())
			return err
		},
		s.Sync,
	)
	return s
}

// UnitRows lists units and resolves each property name, "N/A" when the
// property is gone.
func UnitRows(ctx context.Context, units *repository.Units, properties *repository.Properties) ([]UnitRow, error) {
	list, err := units.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	props, err := properties.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	names := domain.PropertyNames(props)
	rows := make([]UnitRow, 0, len(list))
	for _, u := range list {
		rows = append(rows, UnitRow{Unit: u, PropertyName: domain.PropertyName(names, u.PropertyID)})
	}
	return rows, nil
}

// UnitFormFor fills a form from a stored unit.
func UnitFormFor(u domain.Unit) repository.UnitForm {
	return repository.UnitForm{
		UnitNumber: u.UnitNumber,
		PropertyID: u.PropertyID,
		Floor:      strconv.Itoa(u.Floor),
		Type:       string(u.Type),
		Area:       strconv.FormatFloat(u.Area, 'f', -1, 64),
		RentValue:  strconv.FormatFloat(u.RentValue, 'f', -1, 64),
		SaleValue:  strconv.FormatFloat(u.SaleValue, 'f', -1, 64),
		Status:     string(u.Status),
		OwnerID:    u.OwnerID,
		TenantID:   u.TenantID,
	}
}

func (s *UnitsScreen) Edit(u domain.Unit) {
	s.Modal.OpenEdit(u.ID, UnitFormFor(u))
}

func (s *UnitsScreen) Delete(ctx context.Context, id string, confirm Confirm) (bool, error) {
	return confirmDelete(ctx, confirm, "Delete this unit?", id, s.repo.Delete, s.Sync)
}

// Tickets

type TicketsScreen struct {
	*List[domain.Ticket]
	repo *repository.Tickets
}

func NewTicketsScreen(repo *repository.Tickets, bus events.Bus) *TicketsScreen {
	s := &TicketsScreen{repo: repo}
	s.List = NewList(domain.CollectionTickets, repo.ListAll, domain.Ticket.SearchFields, bus)
	return s
}

func (s *TicketsScreen) SetStatus(ctx context.Context, id string, status domain.TicketStatus) error {
	if _, err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		logging.Op(ctx, "views.tickets.status").WithError(err).Warn("status update failed")
		return err
	}
	return s.Sync(ctx)
}

func (s *TicketsScreen) Delete(ctx context.Context, id string, confirm Confirm) (bool, error) {
	return confirmDelete(ctx, confirm, "Delete this ticket?", id, s.repo.Delete, s.Sync)
}

// Payments

type PaymentsScreen struct {
	*List[domain.Payment]
}

func NewPaymentsScreen(repo *repository.Payments, bus events.Bus) *PaymentsScreen {
	return &PaymentsScreen{List: NewList(domain.CollectionPayments, repo.ListAll, domain.Payment.SearchFields, bus)}
}

// Guest requests

type GuestRequestsScreen struct {
	*List[domain.GuestRequest]
	repo *repository.GuestRequests
}

func NewGuestRequestsScreen(repo *repository.GuestRequests, bus events.Bus) *GuestRequestsScreen {
	s := &GuestRequestsScreen{repo: repo}
	s.List = NewList(domain.CollectionGuestRequests, repo.ListAll, domain.GuestRequest.SearchFields, bus)
	return s
}

func (s *GuestRequestsScreen) SetStatus(ctx context.Context, id string, status domain.GuestRequestStatus) error {
	if _, err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		logging.Op(ctx, "views.guest_requests.status").WithError(err).Warn("status update failed")
		return err
	}
	return s.Sync(ctx)
}

func (s *GuestRequestsScreen) Delete(ctx context.Context, id string, confirm Confirm) (bool, error) {
	return confirmDelete(ctx, confirm, "Delete this request?", id, s.repo.Delete, s.Sync)
}

// Users

// UserDraft holds the editable profile fields.
type UserDraft struct {
	Name  string
	Role  access.Role
	Phone string
}

type UsersScreen struct {
	*List[domain.User]
	Modal *Modal[UserDraft]
	repo  *repository.Users
}

func NewUsersScreen(repo *repository.Users, bus events.Bus) *UsersScreen {
	s := &UsersScreen{repo: repo}
	s.List = NewList(domain.CollectionUsers, repo.ListAll, domain.User.SearchFields, bus)
	s.Modal = NewModal("users", nil,
		func(ctx context.Context, id string, d UserDraft) error {
			_, err := repo.Update(ctx, id, repository.UserPatch{Name: &d.Name, Role: &d.Role, Phone: &d.Phone})
			return err
		},
		s.Sync,
	)
	return s
}

func (s *UsersScreen) Edit(u domain.User) {
	s.Modal.OpenEdit(u.ID, UserDraft{Name: u.Name, Role: u.Role, Phone: u.Phone})
}

func (s *UsersScreen) Delete(ctx context.Context, id string, confirm Confirm) (bool, error) {
	return confirmDelete(ctx, confirm, "Delete this user profile?", id, s.repo.Delete, s.Sync)
}

// Analytics

// AnalyticsScreen holds the last computed report. Load cancels a previous
// load still running.
type AnalyticsScreen struct {
	service *analytics.Service

	mu     sync.Mutex
	report *analytics.Report
	cancel context.CancelFunc
	gen    uint64
}

func NewAnalyticsScreen(service *analytics.Service) *AnalyticsScreen {
	return &AnalyticsScreen{service: service}
}

func (s *AnalyticsScreen) Load(ctx context.Context) (analytics.Report, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	s.cancel = cancel
	s.mu.Unlock()

	report, err := s.service.Compute(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return analytics.Report{}, context.Canceled
	}
	s.cancel = nil
	if err != nil {
		return analytics.Report{}, err
	}
	s.report = &report
	return report, nil
}

// Report returns the last loaded report, if any.
func (s *AnalyticsScreen) Report() (analytics.Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.report == nil {
		return analytics.Report{}, false
	}
	return *s.report, true
}

func (s *AnalyticsScreen) Unmount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
	s.report = nil
}

// Settings

type SettingsScreen struct {
	repo *repository.SettingsRepo

	mu       sync.RWMutex
	settings domain.Settings
	loaded   bool
}

func NewSettingsScreen(repo *repository.SettingsRepo) *SettingsScreen {
	return &SettingsScreen{repo: repo}
}

func (s *SettingsScreen) Load(ctx context.Context) (domain.Settings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return domain.Settings{}, err
	}
	s.mu.Lock()
	s.settings, s.loaded = settings, true
	s.mu.Unlock()
	return settings, nil
}

func (s *SettingsScreen) Save(ctx context.Context, settings domain.Settings) (domain.Settings, error) {
	saved, err := s.repo.Save(ctx, settings)
	if err != nil {
		logging.Op(ctx, "views.settings.save").WithError(err).Warn("save failed")
		return domain.Settings{}, err
	}
	s.mu.Lock()
	s.settings, s.loaded = saved, true
	s.mu.Unlock()
	return saved, nil
}

// Current returns the loaded settings; ok is false before the first Load.
func (s *SettingsScreen) Current() (domain.Settings, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings, s.loaded
}
