package zimbra

import (
	"strconv"
	"time"

	"github.com/emersion/go-ical"
	"github.com/neolist/neolist/internal/entity"
)

const prodID = "-//NeoList//Zimbra Sync//DE"

// icalPriority bildet die vier Prioritäten auf RFC 5545 PRIORITY ab (1 = höchste).
func icalPriority(p entity.TaskPriority) int {
	switch p {
	case entity.PriorityUrgent:
		return 1
	case entity.PriorityHigh:
		return 3
	case entity.PriorityMedium:
		return 5
	case entity.PriorityLow:
		return 9
	}
	return 0
}

func buildVTodo(uid string, payload entity.SyncPayload, now time.Time) *ical.Calendar {
	todo := ical.NewComponent(ical.CompToDo)
	todo.Props.SetText(ical.PropUID, uid)
	todo.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
	todo.Props.SetDateTime(ical.PropLastModified, now.UTC())
	todo.Props.SetText(ical.PropSummary, payload.Title)

	if payload.Notes != "" {
		todo.Props.SetText(ical.PropDescription, payload.Notes)
	}
	if payload.DueDate != nil {
		todo.Props.SetDateTime(ical.PropDue, payload.DueDate.UTC())
	}
	if prio := icalPriority(payload.Priority); prio > 0 {
		todo.Props.SetText(ical.PropPriority, strconv.Itoa(prio))
	}

	if payload.Completed {
		todo.Props.SetText(ical.PropStatus, "COMPLETED")
		todo.Props.SetText(ical.PropPercentComplete, "100")
		todo.Props.SetDateTime(ical.PropCompleted, now.UTC())
	} else {
		todo.Props.SetText(ical.PropStatus, "NEEDS-ACTION")
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, prodID)
	cal.Children = append(cal.Children, todo)
	return cal
}
