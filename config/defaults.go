package config

// Seed template names. Every name here must be present in Config.Templates.
const (
	SeedEventTitle     = "event_title"
	SeedBusy           = "busy"
	SeedWorkHours      = "work_hours"
	SeedLunchBlock     = "lunch_block"
	SeedBufferMin      = "buffer_min"
	SeedBanDowTime     = "ban_dow_time"
	SeedDeadline       = "deadline"
	SeedBanWindow      = "ban_window"
	SeedRequiredWindow = "required_window"
	SeedRoomBooked     = "room_booked"
	SeedFragment       = "fragment"
	SeedReference      = "reference"
	SeedTaskSpec       = "task_spec"
	SeedTaskLevel1     = "task_level1"
	SeedTaskLevel2     = "task_level2"
	SeedTaskLevel3     = "task_level3"
	SeedNoise          = "noise"
	SeedThreadTitle    = "thread_title"
	SeedMailSubject    = "mail_subject"
	SeedDocumentTitle  = "document_title"
)

// RequiredSeeds lists the template names Validate insists on.
var RequiredSeeds = []string{
	SeedEventTitle, SeedBusy, SeedWorkHours, SeedLunchBlock, SeedBufferMin,
	SeedBanDowTime, SeedDeadline, SeedBanWindow, SeedRequiredWindow,
	SeedRoomBooked, SeedFragment, SeedReference, SeedTaskSpec,
	SeedTaskLevel1, SeedTaskLevel2, SeedTaskLevel3, SeedNoise,
	SeedThreadTitle, SeedMailSubject, SeedDocumentTitle,
}

// Default returns the built-in profile: a Monday-Friday week in Seoul, ten
// people, six rooms, four policy skeletons and three level profiles.
// Each call returns a fresh value.
func Default() *Config {
	weekdays := []int{0, 1, 2, 3, 4}
	return &Config{
		World: WorldConfig{
			Timezone:         "Asia/Seoul",
			UTCOffsetMinutes: 540,
			StartDate:        "2026-01-19",
			Days:             5,
			EmailDomain:      "company.com",
			People: []PersonConfig{
				{Name: "Alice", Team: "Engineering", Role: "Engineer"},
				{Name: "Bob", Team: "Engineering", Role: "Engineer"},
				{Name: "Carol", Team: "Product", Role: "Product Manager"},
				{Name: "Dave", Team: "Design", Role: "Designer"},
				{Name: "Eve", Team: "Engineering", Role: "Tech Lead"},
				{Name: "Frank", Team: "Sales", Role: "Account Executive"},
				{Name: "Grace", Team: "Operations", Role: "Operations Manager"},
				{Name: "Henry", Team: "Engineering", Role: "SRE"},
				{Name: "Ivy", Team: "Marketing", Role: "Marketer"},
				{Name: "Jack", Team: "Finance", Role: "Analyst"},
			},
			Rooms: []RoomConfig{
				{Name: "Focus Booth", Capacity: 2, Floor: 3, Equipment: []string{"monitor"}},
				{Name: "Harbor", Capacity: 4, Floor: 3, Equipment: []string{"tv", "whiteboard"}},
				{Name: "Summit", Capacity: 6, Floor: 4, Equipment: []string{"tv", "video_conf"}},
				{Name: "Atlas", Capacity: 8, Floor: 4, Equipment: []string{"projector", "whiteboard"}},
				{Name: "Horizon", Capacity: 10, Floor: 5, Equipment: []string{"projector", "video_conf"}},
				{Name: "Grand Hall", Capacity: 12, Floor: 5, Equipment: []string{"projector", "video_conf", "whiteboard"}},
			},
			Policies: []PolicyConfig{
				{ID: "POLICY_1", Title: "Standard working hours", Rules: []RuleConfig{
					{Rule: "work_hours", From: "09:00", To: "18:00", Weekdays: weekdays},
				}},
				{ID: "POLICY_2", Title: "Protected lunch", Rules: []RuleConfig{
					{Rule: "work_hours", From: "09:00", To: "18:00", Weekdays: weekdays},
					{Rule: "lunch_block", From: "12:00", To: "13:00", Weekdays: weekdays},
				}},
				{ID: "POLICY_3", Title: "Meeting buffers", Rules: []RuleConfig{
					{Rule: "work_hours", From: "09:00", To: "18:00", Weekdays: weekdays},
					{Rule: "buffer_min", Minutes: 10},
				}},
				{ID: "POLICY_4", Title: "Quiet blocks", Rules: []RuleConfig{
					{Rule: "work_hours", From: "09:00", To: "18:00", Weekdays: weekdays},
					{Rule: "ban_dow_time", Weekdays: []int{0}, From: "09:00", To: "10:00"},
					{Rule: "ban_dow_time", Weekdays: []int{4}, From: "16:00", To: "18:00"},
				}},
			},
			RoomBookingsPerDay: IntRange{Min: 0, Max: 2},
			BookingHours:       IntRange{Min: 9, Max: 17},
		},
		Levels: []LevelConfig{
			{
				Level:               1,
				Participants:        IntRange{Min: 2, Max: 3},
				DurationsMinutes:    []int{30, 45, 60},
				NOptions:            []int{1, 2},
				Canonical:           IntRange{Min: 1, Max: 2},
				CalendarDistractors: 2,
				WindowDays:          []int{1},
				WindowStartHour:     IntRange{Min: 9, Max: 11},
				WindowHours:         IntRange{Min: 5, Max: 8},
				NoiseCalendars:      1,
				Difficulty:          DifficultyConfig{Fragmentation: 1, Indirection: 1, MinRequiredSources: 1},
			},
			{
				Level:               2,
				Participants:        IntRange{Min: 3, Max: 4},
				DurationsMinutes:    []int{30, 45, 60},
				NOptions:            []int{1, 2},
				Canonical:           IntRange{Min: 1, Max: 2},
				CalendarDistractors: 2,
				WindowDays:          []int{1, 2},
				WindowStartHour:     IntRange{Min: 9, Max: 10},
				WindowHours:         IntRange{Min: 6, Max: 8},
				NoiseCalendars:      2,
				NoiseMessages:       2,
				Difficulty:          DifficultyConfig{Fragmentation: 2, Indirection: 2, MinRequiredSources: 3},
			},
			{
				Level:               3,
				Participants:        IntRange{Min: 3, Max: 6},
				DurationsMinutes:    []int{30, 60},
				NOptions:            []int{3},
				Canonical:           IntRange{Min: 1, Max: 2},
				CalendarDistractors: 1,
				WindowDays:          []int{1, 2, 3},
				WindowStartHour:     IntRange{Min: 9, Max: 10},
				WindowHours:         IntRange{Min: 6, Max: 8},
				NoiseCalendars:      2,
				NoiseMessages:       3,
				Difficulty:          DifficultyConfig{Fragmentation: 2, Indirection: 3, MinRequiredSources: 4},
			},
		},
		Templates: map[string][]string{
			SeedEventTitle: {"Design review", "1:1", "Customer call", "Focus time", "Hiring panel", "Sprint planning", "Team sync"},
			SeedBusy:       {"{title} {tag}"},
			SeedWorkHours: {
				"Meetings may only be scheduled between {from} and {to} on {weekdays}. {tag}",
			},
			SeedLunchBlock: {
				"The lunch break from {from} to {to} on {weekdays} is protected; do not book anything that overlaps it. {tag}",
			},
			SeedBufferMin: {
				"Leave at least {minutes} minutes between a new meeting and any existing commitment of an attendee. {tag}",
			},
			SeedBanDowTime: {
				"No meetings on {weekdays} between {from} and {to}. {tag}",
				"Addendum: {weekdays} {from}-{to} is reserved for no-meeting time. {tag}",
			},
			SeedDeadline: {
				"We need this settled no later than {date} {to}. {tag}",
				"Hard stop: the meeting has to start by {to} on {date}. {tag}",
			},
			SeedBanWindow: {
				"I'm out on {date} from {from} to {to}, please avoid that. {tag}",
				"Heads up, {date} {from}-{to} doesn't work for our side. {tag}",
			},
			SeedRequiredWindow: {
				"Let's keep it within {date} {from}-{to}. {tag}",
			},
			SeedRoomBooked: {"Reserved {date} {from}-{to}. {tag}"},
			SeedFragment: {
				"Follow-up on {group}: {detail} {tag}",
				"One more detail about {group}: {detail} {tag}",
			},
			SeedReference: {
				"The details are in {ref}, please check there. {tag}",
				"See {ref} for what we agreed. {tag}",
			},
			SeedTaskSpec: {
				"Please find {n} option(s) for a {duration}-minute meeting with {participants}. Rank by {sort}. {tag}",
			},
			SeedTaskLevel1: {
				"Schedule a {duration}-minute meeting for {participants} between {window} under {policy}. Return the {n} earliest feasible slot(s).",
			},
			SeedTaskLevel2: {
				"Can you find time for {participants} to meet between {window}? Check calendars, the {policy} policy and the related threads. We need {n} option(s), {duration} minutes.",
			},
			SeedTaskLevel3: {
				"Set up the meeting described in the planning thread between {window}, following {policy}, and pick rooms that fit everyone.",
			},
			SeedNoise: {
				"Thanks, will take a look.",
				"Moving this to next sprint.",
				"Can someone share the deck?",
				"Reminder: expense reports are due Friday.",
				"+1",
			},
			SeedThreadTitle:   {"planning", "release-prep", "team-sync", "offsite"},
			SeedMailSubject:   {"Re: scheduling", "Fwd: availability", "Re: next steps"},
			SeedDocumentTitle: {"Meeting notes", "Project brief", "Team calendar notes"},
		},
		Renderer: RendererConfig{
			Strategy:       "template",
			Model:          "gpt-4o-mini",
			APIKeyEnv:      "OPENAI_API_KEY",
			RatePerSecond:  2,
			Burst:          1,
			TimeoutSeconds: 30,
			Fallback:       true,
		},
		Batch:   BatchConfig{Workers: 4, MaxAttempts: 8},
		Logging: LoggingConfig{Mode: "prod"},
	}
}
