package export

import (
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/ethanbaker/tubescript/pkg/script"
	"github.com/google/uuid"
)

const (
	// ReminderDuration is how long the publication slot lasts in the calendar
	ReminderDuration = 30 * time.Minute

	// ReminderAlarm is when the alarm fires, relative to the start
	ReminderAlarm = "-PT1H"
)

// Reminder builds an iCalendar file with one event at publishAt reminding the user to
// publish s, with the SEO description and hashtags in the notes
func Reminder(s script.GeneratedScript, seo script.SeoData, publishAt time.Time) string {
	cal := ics.NewCalendarFor("TubeScript")
	cal.SetMethod(ics.MethodPublish)

	id := s.ID
	if id == "" {
		id = uuid.NewString()
	}

	event := cal.AddEvent(id + "@tubescript")
	event.SetDtStampTime(time.Now().UTC())
	event.SetStartAt(publishAt.UTC())
	event.SetEndAt(publishAt.UTC().Add(ReminderDuration))
	event.SetSummary("Publish: " + s.Title)

	notes := []string{}
	if seo.Description != "" {
		notes = append(notes, seo.Description)
	}
	if len(seo.Hashtags) > 0 {
		notes = append(notes, strings.Join(seo.Hashtags, " "))
	}
	if len(notes) > 0 {
		event.SetDescription(strings.Join(notes, "\n\n"))
	}

	alarm := event.AddAlarm()
	alarm.SetAction(ics.ActionDisplay)
	alarm.SetTrigger(ReminderAlarm)
	alarm.SetProperty(ics.ComponentPropertyDescription, "Publish "+s.Title)

	return cal.Serialize()
}
