package domain

// Collection names in the document store.
const (
	CollectionProperties    = "properties"
	CollectionUnits         = "units"
	CollectionTickets       = "tickets"
	CollectionPayments      = "payments"
	CollectionGuestRequests = "guestRequests"
	CollectionUsers         = "users"
	CollectionSettings      = "settings"
)

// SettingsDocID is the single document holding system settings.
const SettingsDocID = "system"

type UnitStatus string

const (
	UnitAvailable UnitStatus = "available"
	UnitOccupied  UnitStatus = "occupied"
	UnitForRent   UnitStatus = "forRent"
	UnitForSale   UnitStatus = "forSale"
)

func (s UnitStatus) Valid() bool {
	switch s {
	case UnitAvailable, UnitOccupied, UnitForRent, UnitForSale:
		return true
	}
	return false
}

type UnitType string

const (
	UnitApartment UnitType = "apartment"
	UnitVilla     UnitType = "villa"
	UnitOffice    UnitType = "office"
	UnitShop      UnitType = "shop"
	UnitWarehouse UnitType = "warehouse"
)

func (t UnitType) Valid() bool {
	switch t {
	case UnitApartment, UnitVilla, UnitOffice, UnitShop, UnitWarehouse:
		return true
	}
	return false
}

type TicketStatus string

const (
	TicketOpen       TicketStatus = "open"
	TicketAssigned   TicketStatus = "assigned"
	TicketInProgress TicketStatus = "inProgress"
	TicketCompleted  TicketStatus = "completed"
	TicketClosed     TicketStatus = "closed"
)

func (s TicketStatus) Valid() bool {
	switch s {
	case TicketOpen, TicketAssigned, TicketInProgress, TicketCompleted, TicketClosed:
		return true
	}
	return false
}

type GuestRequestStatus string

const (
	GuestPending   GuestRequestStatus = "pending"
	GuestContacted GuestRequestStatus = "contacted"
	GuestCompleted GuestRequestStatus = "completed"
)

func (s GuestRequestStatus) Valid() bool {
	switch s {
	case GuestPending, GuestContacted, GuestCompleted:
		return true
	}
	return false
}

// Language codes a profile can select.
const (
	LangEnglish = "en"
	LangArabic  = "ar"
)
