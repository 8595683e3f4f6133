package config

import (
	"fmt"
	"math/rand"

	"github.com/katalvlaran/mpcbench/core"
)

// Config is the root configuration value.
type Config struct {
	World     WorldConfig         `yaml:"world"`
	Levels    []LevelConfig       `yaml:"levels" validate:"required,min=1,dive"`
	Templates map[string][]string `yaml:"templates" validate:"required"`
	Renderer  RendererConfig      `yaml:"renderer"`
	Batch     BatchConfig         `yaml:"batch"`
	Logging   LoggingConfig       `yaml:"logging"`
}

// WorldConfig describes the fixed universe every world is built from.
type WorldConfig struct {
	Timezone         string `yaml:"timezone" validate:"required"`
	UTCOffsetMinutes int    `yaml:"utc_offset_minutes" validate:"min=-720,max=840"`
	// StartDate is the first day of the world; Days consecutive days follow.
	StartDate   string `yaml:"start_date" validate:"required,datetime=2006-01-02"`
	Days        int    `yaml:"days" validate:"min=1,max=28"`
	EmailDomain string `yaml:"email_domain" validate:"required,hostname"`

	People   []PersonConfig `yaml:"people" validate:"required,min=2,dive"`
	Rooms    []RoomConfig   `yaml:"rooms" validate:"dive"`
	Policies []PolicyConfig `yaml:"policies" validate:"required,min=1,dive"`

	// RoomBookingsPerDay bounds the baseline bookings drawn per room and day.
	RoomBookingsPerDay IntRange `yaml:"room_bookings_per_day"`
	// BookingHours bounds the wall-clock hours baseline bookings fall into.
	BookingHours IntRange `yaml:"booking_hours"`
}

// PersonConfig is one roster entry.
type PersonConfig struct {
	Name string `yaml:"name" validate:"required"`
	Team string `yaml:"team" validate:"required"`
	Role string `yaml:"role"`
}

// RoomConfig is one room in the level-3 rooms table.
type RoomConfig struct {
	Name      string   `yaml:"name" validate:"required"`
	Capacity  int      `yaml:"capacity" validate:"min=1"`
	Floor     int      `yaml:"floor" validate:"min=0"`
	Equipment []string `yaml:"equipment,omitempty"`
}

// PolicyConfig is one named policy skeleton.
type PolicyConfig struct {
	ID    string       `yaml:"id" validate:"required"`
	Title string       `yaml:"title" validate:"required"`
	Rules []RuleConfig `yaml:"rules" validate:"required,min=1,dive"`
}

// RuleConfig is one policy skeleton rule.
type RuleConfig struct {
	Rule     string `yaml:"rule" validate:"required,oneof=work_hours lunch_block buffer_min ban_dow_time"`
	From     string `yaml:"from" validate:"omitempty,clock"`
	To       string `yaml:"to" validate:"omitempty,clock"`
	Weekdays []int  `yaml:"weekdays,omitempty" validate:"dive,min=0,max=6"`
	Minutes  int    `yaml:"minutes" validate:"min=0,max=120"`
}

// IntRange is an inclusive [Min, Max] range.
type IntRange struct {
	Min int `yaml:"min" validate:"min=0"`
	Max int `yaml:"max" validate:"gtefield=Min"`
}

// Draw returns a uniform value in [Min, Max].
func (r IntRange) Draw(rng *rand.Rand) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Intn(r.Max-r.Min+1)
}

// DifficultyConfig is the default difficulty profile of a level.
type DifficultyConfig struct {
	Fragmentation      int `yaml:"fragmentation_depth" validate:"min=1,max=3"`
	Indirection        int `yaml:"indirection_depth" validate:"min=1,max=3"`
	MinRequiredSources int `yaml:"min_required_source" validate:"min=1,max=5"`
}

// LevelConfig is the generation profile of one level.
type LevelConfig struct {
	Level        int      `yaml:"level" validate:"min=1,max=3"`
	Participants IntRange `yaml:"participants"`
	// DurationsMinutes and NOptions are drawn uniformly per instance.
	DurationsMinutes []int `yaml:"durations_min" validate:"required,min=1,dive,min=15,max=240"`
	NOptions         []int `yaml:"n_options" validate:"required,min=1,dive,min=1,max=10"`
	// Canonical bounds the size of the canonical set.
	Canonical           IntRange `yaml:"canonical"`
	CalendarDistractors int      `yaml:"calendar_distractors" validate:"min=0,max=10"`
	// WindowDays lists possible window spans in days.
	WindowDays []int `yaml:"window_days" validate:"required,min=1,dive,min=1,max=7"`
	// WindowStartHour and WindowHours shape the window: it opens at a drawn
	// hour on its first day and closes WindowHours later on its last day.
	WindowStartHour IntRange `yaml:"window_start_hour"`
	WindowHours     IntRange `yaml:"window_hours"`
	// NoiseCalendars adds calendars of non-participants; NoiseMessages adds
	// untagged chatter to threads.
	NoiseCalendars int `yaml:"noise_calendars" validate:"min=0"`
	NoiseMessages  int `yaml:"noise_messages" validate:"min=0"`

	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// RendererConfig selects and tunes the prose renderer.
type RendererConfig struct {
	Strategy       string  `yaml:"strategy" validate:"oneof=template openai"`
	Model          string  `yaml:"model" validate:"required_if=Strategy openai"`
	BaseURL        string  `yaml:"base_url" validate:"omitempty,url"`
	APIKeyEnv      string  `yaml:"api_key_env" validate:"required_if=Strategy openai"`
	RatePerSecond  float64 `yaml:"rate_per_second" validate:"min=0"`
	Burst          int     `yaml:"burst" validate:"min=0"`
	TimeoutSeconds int     `yaml:"timeout_seconds" validate:"min=0"`
	// Fallback renders with templates when the external renderer fails or
	// drops an embedded tag.
	Fallback bool `yaml:"fallback"`
}

// BatchConfig tunes the batch driver and the quality gate.
type BatchConfig struct {
	Workers     int `yaml:"workers" validate:"min=1,max=256"`
	MaxAttempts int `yaml:"max_attempts" validate:"min=1,max=1000"`
}

// LoggingConfig selects the logger mode.
type LoggingConfig struct {
	Mode string `yaml:"mode" validate:"oneof=dev prod nop"`
}

// Level returns the profile of level l.
func (c *Config) Level(l core.Level) (LevelConfig, error) {
	for _, lc := range c.Levels {
		if lc.Level == int(l) {
			return lc, nil
		}
	}
	return LevelConfig{}, missing(fmt.Sprintf("levels[level=%d]", int(l)))
}

// Seed returns every variant of a seed template.
func (c *Config) Seed(name string) ([]string, error) {
	v, ok := c.Templates[name]
	if !ok || len(v) == 0 {
		return nil, missing("templates." + name)
	}
	return v, nil
}

// PickSeed draws one variant of a seed template with rng.
func (c *Config) PickSeed(name string, rng *rand.Rand) (string, error) {
	v, err := c.Seed(name)
	if err != nil {
		return "", err
	}
	return v[rng.Intn(len(v))], nil
}
