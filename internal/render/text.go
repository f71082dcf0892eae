// Package render writes views for a terminal.
package render

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/couchcryptid/weather-client/internal/domain"
)

// Text prints each view as two lines: place, then temperature and condition.
type Text struct {
	mu sync.Mutex
	w  io.Writer
}

// NewText creates a Text renderer writing to w.
func NewText(w io.Writer) *Text {
	return &Text{w: w}
}

func (t *Text) Name() string { return "text" }

func (t *Text) Render(_ context.Context, v domain.View) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, err := io.WriteString(t.w, Format(v))
	return err
}

// Format renders v the way Text prints it.
func Format(v domain.View) string {
	label := v.PlaceLabel
	if label == "" {
		label = domain.Placeholder
	}
	temp := v.Temperature
	if temp == "" {
		temp = domain.Placeholder
	}

	switch {
	case v.PermissionDenied:
		return fmt.Sprintf("%s\n%s\n", label, domain.PermissionMessage)
	case v.Failed() && temp == domain.Placeholder:
		return fmt.Sprintf("%s\n%s  (%s)\n", label, temp, v.Error)
	case v.Failed():
		return fmt.Sprintf("%s\n%s  %s  (%s)\n", label, temp, v.Condition, v.Error)
	default:
		return fmt.Sprintf("%s\n%s  %s\n", label, temp, v.Condition)
	}
}
