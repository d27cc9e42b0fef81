package bundle

import (
	"time"

	"github.com/klokku/okc/internal/utils"
)

// Notion property names of the bundles data source.
const (
	propertyName          = "Name"
	propertyEstimatedDays = "Estimation (days)"
	propertyExceeded      = "Exceeded"
	propertySpentDays     = "Time spent (days)"
	propertyStartDate     = "Start date"
	propertyStatus        = "Status"
)

// Notion property value variants understood by Decode.
const (
	typeTitle    = "title"
	typeNumber   = "number"
	typeCheckbox = "checkbox"
	typeDate     = "date"
	typeStatus   = "status"
)

type Page struct {
	Object     string                   `json:"object"`
	Id         string                   `json:"id"`
	Properties map[string]PropertyValue `json:"properties"`
}

// PropertyValue is a tagged Notion property: Type names the variant and only the matching
// field is expected to be set.
type PropertyValue struct {
	Type     string      `json:"type,omitempty"`
	Title    []RichText  `json:"title,omitempty"`
	Number   *float64    `json:"number,omitempty"`
	Checkbox *bool       `json:"checkbox,omitempty"`
	Date     *DateValue  `json:"date,omitempty"`
	Status   *NamedValue `json:"status,omitempty"`
}

type RichText struct {
	PlainText string    `json:"plain_text,omitempty"`
	Text      *TextBody `json:"text,omitempty"`
}

type TextBody struct {
	Content string `json:"content"`
}

type DateValue struct {
	Start string  `json:"start"`
	End   *string `json:"end,omitempty"`
}

type NamedValue struct {
	Name string `json:"name"`
}

// Decode maps a Notion page onto a Bundle. Missing properties, wrong variants and
// unparsable values fall back to per-field defaults; decoding never fails.
func Decode(page Page, now time.Time) *Bundle {
	props := page.Properties
	return &Bundle{
		Id:            page.Id,
		Name:          titleOr(props, propertyName, ""),
		EstimatedDays: numberOr(props, propertyEstimatedDays, 0),
		StartDate:     dateOr(props, propertyStartDate, now),
		Status:        Status(statusOr(props, propertyStatus, "")),
		spentDays:     numberOr(props, propertySpentDays, 0),
		exceeded:      checkboxOr(props, propertyExceeded, false),
	}
}

func lookup(props map[string]PropertyValue, name, variant string) (PropertyValue, bool) {
	value, ok := props[name]
	if !ok || value.Type != variant {
		return PropertyValue{}, false
	}
	return value, true
}

func titleOr(props map[string]PropertyValue, name, def string) string {
	value, ok := lookup(props, name, typeTitle)
	if !ok || len(value.Title) == 0 || value.Title[0].PlainText == "" {
		return def
	}
	return value.Title[0].PlainText
}

func numberOr(props map[string]PropertyValue, name string, def float64) float64 {
	value, ok := lookup(props, name, typeNumber)
	if !ok || value.Number == nil {
		return def
	}
	return *value.Number
}

func checkboxOr(props map[string]PropertyValue, name string, def bool) bool {
	value, ok := lookup(props, name, typeCheckbox)
	if !ok || value.Checkbox == nil {
		return def
	}
	return *value.Checkbox
}

func statusOr(props map[string]PropertyValue, name, def string) string {
	value, ok := lookup(props, name, typeStatus)
	if !ok || value.Status == nil {
		return def
	}
	return value.Status.Name
}

func dateOr(props map[string]PropertyValue, name string, def time.Time) time.Time {
	value, ok := lookup(props, name, typeDate)
	if !ok || value.Date == nil || value.Date.Start == "" {
		return def
	}
	if day, err := utils.ParseDate(value.Date.Start, def.Location()); err == nil {
		return day
	}
	if t, err := time.Parse(time.RFC3339, value.Date.Start); err == nil {
		return t
	}
	return def
}

// encode builds the property payload written by Save.
func encode(b *Bundle) map[string]PropertyValue {
	estimated := b.EstimatedDays
	spent := b.spentDays
	exceeded := b.exceeded
	return map[string]PropertyValue{
		propertyEstimatedDays: {Number: &estimated},
		propertyExceeded:      {Checkbox: &exceeded},
		propertyName:          {Title: []RichText{{Text: &TextBody{Content: b.Name}}}},
		propertyStartDate:     {Date: &DateValue{Start: b.StartDate.Format(utils.DateLayout)}},
		propertySpentDays:     {Number: &spent},
	}
}
