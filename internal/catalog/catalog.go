// Package catalog holds the compiled-in barbershop data: staff with their
// highlights, services, time slots and business information.
package catalog

import (
	"time"

	"bookyz/internal/models"

	"github.com/google/uuid"
)

// Catalog is immutable after construction; every accessor returns copies.
type Catalog struct {
	business  models.BusinessInfo
	staff     []models.Staff
	services  []models.Service
	timeSlots []string
	loc       *time.Location
}

// New builds a catalog from explicit data. Story timestamps and day
// boundaries are interpreted in loc.
func New(business models.BusinessInfo, staff []models.Staff, services []models.Service, timeSlots []string, loc *time.Location) *Catalog {
	if loc == nil {
		loc = time.Local
	}
	c := &Catalog{
		business:  business,
		timeSlots: append([]string(nil), timeSlots...),
		loc:       loc,
	}
	for _, s := range staff {
		c.staff = append(c.staff, s.Clone())
	}
	for _, s := range services {
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		c.services = append(c.services, s)
	}
	return c
}

// Default returns the demo catalog. Story ages are relative to now.
func Default(now time.Time, loc *time.Location) *Catalog {
	return New(defaultBusiness(), defaultStaff(now), defaultServices(), DefaultTimeSlots(), loc)
}

func (c *Catalog) Location() *time.Location {
	return c.loc
}

func (c *Catalog) Staff() []models.Staff {
	out := make([]models.Staff, 0, len(c.staff))
	for _, s := range c.staff {
		out = append(out, s.Clone())
	}
	return out
}

func (c *Catalog) StaffByID(id int64) (models.Staff, bool) {
	for _, s := range c.staff {
		if s.ID == id {
			return s.Clone(), true
		}
	}
	return models.Staff{}, false
}

func (c *Catalog) Services() []models.Service {
	return append([]models.Service(nil), c.services...)
}

func (c *Catalog) ServiceByID(id string) (models.Service, bool) {
	for _, s := range c.services {
		if s.ID == id {
			return s, true
		}
	}
	return models.Service{}, false
}

func (c *Catalog) ServiceByName(name string) (models.Service, bool) {
	for _, s := range c.services {
		if s.Name == name {
			return s, true
		}
	}
	return models.Service{}, false
}

func (c *Catalog) TimeSlots() []string {
	return append([]string(nil), c.timeSlots...)
}

func (c *Catalog) HasTimeSlot(label string) bool {
	for _, slot := range c.timeSlots {
		if slot == label {
			return true
		}
	}
	return false
}

func (c *Catalog) Business() models.BusinessInfo {
	out := c.business
	out.OpeningHours = append([]models.DaySchedule(nil), c.business.OpeningHours...)
	return out
}

// DateOptions lists the bookable days starting today, one entry per day.
func (c *Catalog) DateOptions(now time.Time, days int) []models.DateOption {
	today := StartOfDay(now, c.loc)
	options := make([]models.DateOption, 0, days)
	for offset := 0; offset < days; offset++ {
		day := today.AddDate(0, 0, offset)
		label := day.Format(models.DayLabelLayout)
		if offset == 0 {
			label = models.TodayLabelPrefix + label
		}
		options = append(options, models.DateOption{
			Date:    day,
			Label:   label,
			IsToday: offset == 0,
		})
	}
	return options
}

// StartOfDay truncates t to midnight in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// SlotStart combines a day and a "15:04" slot label into an instant in loc.
func SlotStart(day time.Time, label string, loc *time.Location) (time.Time, error) {
	clock, err := time.Parse(models.TimeLayout, label)
	if err != nil {
		return time.Time{}, err
	}
	d := StartOfDay(day, loc)
	return time.Date(d.Year(), d.Month(), d.Day(), clock.Hour(), clock.Minute(), 0, 0, d.Location()), nil
}
