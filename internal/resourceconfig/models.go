// Package resourceconfig exposes the event's configured resource options:
// meal sittings, kit items and certificate types. The data is owned by event
// administrators and read-mostly here; lookups go through a bounded-staleness
// cache.
package resourceconfig

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	id "symposia/pkg/domain"
)

// Option is one configured consumable unit scoped to an event.
type Option struct {
	ID           id.OptionID
	EventID      id.EventID
	ResourceType id.ResourceType
	DisplayName  string
	// Date is set for food options only: the calendar day the sitting
	// belongs to. Canonical meal identity is (ID, Date).
	Date *time.Time
}

// Label is the human-readable name denormalized into ledger entries. Meal
// sittings carry their day so listings distinguish repeated sittings.
func (o Option) Label() string {
	if o.Date != nil {
		return fmt.Sprintf("%s (%s)", o.DisplayName, o.Date.Format("02/01/2006"))
	}
	return o.DisplayName
}

// Day returns the option's calendar day in YYYY-MM-DD form, or the empty
// string for options that are not day-scoped.
func (o Option) Day() string {
	if o.Date == nil {
		return ""
	}
	return o.Date.Format("2006-01-02")
}

// MealRef is the canonical identity of a meal sitting: option plus day.
// It replaces the legacy "<dayIndex>_<mealName>" encoded key, which is parsed
// once at the boundary and never propagated.
type MealRef struct {
	OptionID id.OptionID
	Day      time.Time
}

// ParseLegacyMealKey decodes the retired "<dayIndex>_<mealName>" encoding
// still emitted by old kiosk firmware. The day index is resolved against the
// event's start date; the meal name is matched against configured food
// options for that day.
func ParseLegacyMealKey(key string, eventStart time.Time, options []Option) (MealRef, error) {
	idx := strings.Index(key, "_")
	if idx <= 0 || idx == len(key)-1 {
		return MealRef{}, fmt.Errorf("malformed legacy meal key %q", key)
	}
	dayIndex, err := strconv.Atoi(key[:idx])
	if err != nil || dayIndex < 0 {
		return MealRef{}, fmt.Errorf("malformed legacy meal key %q: bad day index", key)
	}
	mealName := key[idx+1:]
	day := eventStart.AddDate(0, 0, dayIndex)

	for _, opt := range options {
		if opt.ResourceType != id.ResourceFood || opt.Date == nil {
			continue
		}
		sameDay := opt.Date.Year() == day.Year() && opt.Date.YearDay() == day.YearDay()
		if sameDay && strings.EqualFold(opt.DisplayName, mealName) {
			return MealRef{OptionID: opt.ID, Day: *opt.Date}, nil
		}
	}
	return MealRef{}, fmt.Errorf("legacy meal key %q matches no configured option", key)
}
