package cli

import (
	"strings"
	"time"

	"github.com/julianstephens/phaseflow/internal/utils"
)

// ParseDay accepts YYYY-MM-DD or one of today, yesterday and tomorrow
func (c *Context) ParseDay(s string) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return c.Today(), nil
	case "yesterday":
		return c.Today().AddDate(0, 0, -1), nil
	case "tomorrow":
		return c.Today().AddDate(0, 0, 1), nil
	}
	return utils.ParseDate(strings.TrimSpace(s))
}

// ParseDays parses each entry with ParseDay. Entries may also hold comma
// separated lists.
func (c *Context) ParseDays(values []string) ([]time.Time, error) {
	var days []time.Time
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			d, err := c.ParseDay(part)
			if err != nil {
				return nil, err
			}
			days = append(days, d)
		}
	}
	return days, nil
}
