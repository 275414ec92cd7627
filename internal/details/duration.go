package details

import (
	"fmt"
	"time"

	"github.com/me/taskpanel/pkg/model"
)

// Duration returns end minus start, using now for a missing end.
// A missing start, or an end before the start, yields zero.
func Duration(start, end model.OptionalTime, now time.Time) time.Duration {
	s, ok := start.Get()
	if !ok {
		return 0
	}
	d := end.Or(now).Sub(s)
	if d < 0 {
		return 0
	}
	return d
}

// FormatDuration renders d as [Nd]HH:MM:SS, truncated to whole seconds.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	days := total / 86400
	h := (total % 86400) / 3600
	m := (total % 3600) / 60
	s := total % 60
	if days > 0 {
		return fmt.Sprintf("%dd%02d:%02d:%02d", days, h, m, s)
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
