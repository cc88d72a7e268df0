package models

import "fmt"

// DayHours describes opening hours for a single weekday.
type DayHours struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	Closed bool   `json:"closed"`
}

// OperatingHours holds per-weekday opening hours.
type OperatingHours struct {
	Monday    DayHours `json:"monday"`
	Tuesday   DayHours `json:"tuesday"`
	Wednesday DayHours `json:"wednesday"`
	Thursday  DayHours `json:"thursday"`
	Friday    DayHours `json:"friday"`
	Saturday  DayHours `json:"saturday"`
	Sunday    DayHours `json:"sunday"`
}

// NotificationToggles gates each notification kind.
type NotificationToggles struct {
	NewOrders       bool `json:"newOrders"`
	OrderReady      bool `json:"orderReady"`
	LowStock        bool `json:"lowStock"`
	CustomerReviews bool `json:"customerReviews"`
	DailyReport     bool `json:"dailyReport"`
	WeeklyReport    bool `json:"weeklyReport"`
	SystemUpdates   bool `json:"systemUpdates"`
}

// Enabled reports whether the given kind is switched on. The second return
// value is false for kinds the toggle set does not know about.
func (t NotificationToggles) Enabled(kind NotificationKind) (on, known bool) {
	switch kind {
	case KindNewOrders:
		return t.NewOrders, true
	case KindOrderReady:
		return t.OrderReady, true
	case KindLowStock:
		return t.LowStock, true
	case KindCustomerReviews:
		return t.CustomerReviews, true
	case KindDailyReport:
		return t.DailyReport, true
	case KindWeeklyReport:
		return t.WeeklyReport, true
	case KindSystemUpdates:
		return t.SystemUpdates, true
	}
	return false, false
}

// Settings is the singleton configuration record governing fees, tax, hours
// and notification toggles. It is treated as an immutable snapshot once
// loaded; saving produces a new snapshot.
type Settings struct {
	RestaurantName string `json:"restaurant_name"`
	Address        string `json:"address"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Website        string `json:"website"`
	Description    string `json:"description"`

	DefaultPrepTime  int     `json:"default_prep_time"`
	PriorityUpcharge float64 `json:"priority_upcharge"`
	MaxTables        int     `json:"max_tables"`
	ServiceFee       float64 `json:"service_fee"`
	TaxRate          float64 `json:"tax_rate"`

	OperatingHours OperatingHours      `json:"operating_hours"`
	Notifications  NotificationToggles `json:"notifications"`
}

// DefaultSettings returns the record created lazily on first read when no
// settings row exists yet.
func DefaultSettings() *Settings {
	weekday := DayHours{Open: "09:00", Close: "22:00"}
	return &Settings{
		RestaurantName: "NeonFood Restaurant",
		Address:        "123 Food Street, City, State 12345",
		Phone:          "+1 (555) 123-4567",
		Email:          "contact@neonfood.com",
		Website:        "https://neonfood.com",
		Description:    "A modern restaurant serving delicious food with cutting-edge technology.",

		DefaultPrepTime:  15,
		PriorityUpcharge: 4.99,
		MaxTables:        20,
		ServiceFee:       2.50,
		TaxRate:          8.5,

		OperatingHours: OperatingHours{
			Monday:    weekday,
			Tuesday:   weekday,
			Wednesday: weekday,
			Thursday:  weekday,
			Friday:    DayHours{Open: "09:00", Close: "23:00"},
			Saturday:  DayHours{Open: "09:00", Close: "23:00"},
			Sunday:    DayHours{Open: "10:00", Close: "21:00"},
		},
		Notifications: NotificationToggles{
			NewOrders:       true,
			OrderReady:      true,
			LowStock:        true,
			CustomerReviews: true,
			DailyReport:     false,
			WeeklyReport:    true,
			SystemUpdates:   false,
		},
	}
}

// Validate checks the tunable ranges before a save is accepted.
func (s *Settings) Validate() error {
	if s.DefaultPrepTime < 5 || s.DefaultPrepTime > 60 {
		return &ValidationError{Field: "default_prep_time", Reason: "must be between 5 and 60 minutes"}
	}
	if s.PriorityUpcharge < 0 {
		return &ValidationError{Field: "priority_upcharge", Reason: "must not be negative"}
	}
	if s.MaxTables < 1 || s.MaxTables > 100 {
		return &ValidationError{Field: "max_tables", Reason: "must be between 1 and 100"}
	}
	if s.ServiceFee < 0 {
		return &ValidationError{Field: "service_fee", Reason: "must not be negative"}
	}
	if s.TaxRate < 0 || s.TaxRate > 50 {
		return &ValidationError{Field: "tax_rate", Reason: fmt.Sprintf("%.2f is outside the 0-50 percent range", s.TaxRate)}
	}
	return nil
}
