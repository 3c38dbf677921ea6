package entities

// Settings - единственный документ настроек.
type Settings struct {
	Sidebar       SidebarSettings      `json:"sidebar"`
	Notifications NotificationSettings `json:"notifications"`
	Calendar      CalendarSettings     `json:"calendar"`
	Planning      PlanningSettings     `json:"planning"`
}

type SidebarSettings struct {
	BackgroundColor string `json:"background_color" validate:"omitempty,hex_color"`
	TextColor       string `json:"text_color" validate:"omitempty,hex_color"`
	Title           string `json:"title" validate:"max=100"`
	Subtitle        string `json:"subtitle" validate:"max=100"`
}

type NotificationSettings struct {
	SenderDomain string `json:"sender_domain" validate:"omitempty,domain"`
	Recipient    string `json:"recipient" validate:"omitempty,custom_email"`
	Enabled      bool   `json:"enabled"`
}

type CalendarSettings struct {
	Title string `json:"title" validate:"max=100"`
}

type PlanningSettings struct {
	DueSoonDays int `json:"due_soon_days" validate:"gte=0,lte=365"`
}

func DefaultSettings() Settings {
	return Settings{
		Sidebar: SidebarSettings{
			BackgroundColor: "#b91c1c",
			TextColor:       "#ffffff",
			Title:           "Gerätewart",
			Subtitle:        "Feuerwehr",
		},
		Notifications: NotificationSettings{Enabled: true},
		Calendar:      CalendarSettings{Title: "Wartungskalender"},
		Planning:      PlanningSettings{DueSoonDays: 30},
	}
}
