package certificate

import (
	"fmt"
	"strings"
	"time"

	"symposia/internal/roster"
)

// RenderContext is the data a template binds against. Registration and
// Event are always present; Abstract and Workshop are optional relations.
type RenderContext struct {
	Registration *roster.Registration
	Event        *roster.Event
	Abstract     *roster.Abstract
	Workshop     *roster.Workshop
}

// Resolve evaluates a field source against the context. It never fails:
// unknown roots, missing segments and absent relations all resolve to the
// empty string so one bad expression never blocks a print queue.
func (c *RenderContext) Resolve(source Source) string {
	switch s := source.(type) {
	case Static:
		return s.Text
	case Composite:
		return c.resolveComposite(s.Name)
	case Path:
		return c.resolvePath(s)
	default:
		return ""
	}
}

func (c *RenderContext) resolveComposite(name string) string {
	switch name {
	case CompositeFullName:
		if c.Registration == nil {
			return ""
		}
		return c.Registration.PersonalInfo.FullName()
	case CompositeAuthorList:
		if c.Abstract == nil {
			return ""
		}
		return strings.Join(c.Abstract.Authors, ", ")
	default:
		return ""
	}
}

func (c *RenderContext) resolvePath(path Path) string {
	var view map[string]any
	switch path.Root {
	case "Registration":
		view = registrationView(c.Registration)
	case "Event":
		view = eventView(c.Event)
	case "Abstract":
		view = abstractView(c.Abstract)
	case "Workshop":
		view = workshopView(c.Workshop)
	default:
		return ""
	}

	var current any = view
	for _, segment := range path.Segments {
		node, ok := current.(map[string]any)
		if !ok {
			return ""
		}
		current, ok = node[segment]
		if !ok {
			return ""
		}
	}
	if _, isBranch := current.(map[string]any); isBranch {
		// A path ending on a branch (or the bare root) has no text form.
		return ""
	}
	return formatValue(current)
}

// formatValue renders a leaf value for the page. Dates use the display
// format certificates are proofread against.
func formatValue(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case time.Time:
		return value.Format("02/01/2006")
	case []string:
		return strings.Join(value, ", ")
	case nil:
		return ""
	default:
		return fmt.Sprint(value)
	}
}

// The view builders expose each entity under the key names templates are
// authored with. A nil entity yields a nil map, which resolves to empty.

func registrationView(r *roster.Registration) map[string]any {
	if r == nil {
		return nil
	}
	return map[string]any{
		"id":        r.ID.String(),
		"badgeCode": r.BadgeCode,
		"personalInfo": map[string]any{
			"firstName":    r.PersonalInfo.FirstName,
			"lastName":     r.PersonalInfo.LastName,
			"email":        r.PersonalInfo.Email,
			"organization": r.PersonalInfo.Organization,
			"country":      r.PersonalInfo.Country,
		},
	}
}

func eventView(e *roster.Event) map[string]any {
	if e == nil {
		return nil
	}
	return map[string]any{
		"id":        e.ID.String(),
		"name":      e.Name,
		"venue":     e.Venue,
		"city":      e.City,
		"startDate": e.StartDate,
		"endDate":   e.EndDate,
	}
}

func abstractView(a *roster.Abstract) map[string]any {
	if a == nil {
		return nil
	}
	return map[string]any{
		"id":      a.ID.String(),
		"title":   a.Title,
		"authors": a.Authors,
		"code":    a.Code,
		"status":  string(a.Status),
	}
}

func workshopView(w *roster.Workshop) map[string]any {
	if w == nil {
		return nil
	}
	return map[string]any{
		"id":       w.ID.String(),
		"title":    w.Title,
		"venue":    w.Venue,
		"startsAt": w.StartsAt,
		"endsAt":   w.EndsAt,
	}
}
