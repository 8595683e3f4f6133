package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/mpcbench/core"
)

// validate is shared by every Validate call; validator.Validate caches
// struct metadata and is safe for concurrent use.
var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = validate.RegisterValidation("clock", validateClock)
}

// validateClock accepts "HH:MM" strings in 00:00..24:00.
func validateClock(fl validator.FieldLevel) bool {
	_, err := core.ParseClock(fl.Field().String())
	return err == nil
}

// Load reads and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: Load(%q): %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML strictly (unknown keys are rejected) and validates it.
// Sections absent from the document stay zero and fail validation.
func Parse(data []byte) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, &Error{Field: "yaml", Reason: err.Error()}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate runs struct-tag validation and the cross-field checks.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var ves validator.ValidationErrors
		if errors.As(err, &ves) && len(ves) > 0 {
			fe := ves[0]
			return &Error{Field: fe.Namespace(), Reason: fmt.Sprintf("failed %q (value %v)", fe.Tag(), fe.Value())}
		}
		return &Error{Field: "config", Reason: err.Error()}
	}
	for _, name := range RequiredSeeds {
		if _, err := c.Seed(name); err != nil {
			return err
		}
	}
	if err := c.validatePolicies(); err != nil {
		return err
	}
	return c.validateLevels()
}

func (c *Config) validatePolicies() error {
	seen := make(map[string]struct{}, len(c.World.Policies))
	for i, p := range c.World.Policies {
		field := fmt.Sprintf("world.policies[%d]", i)
		if _, dup := seen[p.ID]; dup {
			return invalidf(field+".id", "duplicate policy id %q", p.ID)
		}
		seen[p.ID] = struct{}{}
		for j, r := range p.Rules {
			rf := fmt.Sprintf("%s.rules[%d]", field, j)
			switch r.Rule {
			case string(core.RuleBufferMin):
				if r.Minutes <= 0 {
					return missing(rf + ".minutes")
				}
			default:
				if r.From == "" {
					return missing(rf + ".from")
				}
				if r.To == "" {
					return missing(rf + ".to")
				}
				from, _ := core.ParseClock(r.From)
				to, _ := core.ParseClock(r.To)
				if from >= to {
					return invalidf(rf, "from %s must precede to %s", r.From, r.To)
				}
				if r.Rule == string(core.RuleBanDowTime) && len(r.Weekdays) == 0 {
					return missing(rf + ".weekdays")
				}
			}
		}
	}
	return nil
}

func (c *Config) validateLevels() error {
	seen := make(map[int]struct{}, len(c.Levels))
	maxCapacity := 0
	for _, r := range c.World.Rooms {
		maxCapacity = max(maxCapacity, r.Capacity)
	}
	for i, lc := range c.Levels {
		field := fmt.Sprintf("levels[%d]", i)
		if _, dup := seen[lc.Level]; dup {
			return invalidf(field+".level", "duplicate level %d", lc.Level)
		}
		seen[lc.Level] = struct{}{}

		if lc.Participants.Min < 2 {
			return invalidf(field+".participants.min", "need at least 2 participants, got %d", lc.Participants.Min)
		}
		if lc.Participants.Max+lc.NoiseCalendars > len(c.World.People) {
			return invalidf(field+".participants.max", "%d participants plus %d noise calendars exceed %d people",
				lc.Participants.Max, lc.NoiseCalendars, len(c.World.People))
		}
		if lc.Canonical.Min < 1 {
			return invalidf(field+".canonical.min", "need at least one canonical slot")
		}
		for _, d := range lc.DurationsMinutes {
			if d%15 != 0 {
				return invalidf(field+".durations_min", "duration %d is not a multiple of 15", d)
			}
		}
		for _, d := range lc.WindowDays {
			if d > c.World.Days {
				return invalidf(field+".window_days", "window of %d days exceeds world of %d days", d, c.World.Days)
			}
		}
		if lc.WindowHours.Min < 1 {
			return invalidf(field+".window_hours.min", "window must span at least one hour")
		}
		if lc.WindowStartHour.Max+lc.WindowHours.Max > 24 {
			return invalidf(field+".window_hours", "window closes after midnight")
		}

		d := lc.Difficulty
		switch {
		case d.Indirection == 1 && d.MinRequiredSources != 1:
			return invalidf(field+".difficulty", "indirection_depth 1 requires min_required_source 1")
		case d.Indirection >= 2 && d.MinRequiredSources < d.Indirection:
			return invalidf(field+".difficulty", "indirection_depth %d requires min_required_source >= %d", d.Indirection, d.Indirection)
		}
		level := core.Level(lc.Level)
		if d.MinRequiredSources-1 > len(level.Sources()) {
			return invalidf(field+".difficulty.min_required_source", "%s offers only %d non-calendar sources", level, len(level.Sources()))
		}
		if level.HasRooms() {
			if len(c.World.Rooms) == 0 {
				return missing("world.rooms")
			}
			if maxCapacity < lc.Participants.Max {
				return invalidf("world.rooms", "largest room holds %d, level needs %d", maxCapacity, lc.Participants.Max)
			}
		}
	}
	return nil
}
