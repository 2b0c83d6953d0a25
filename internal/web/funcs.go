package web

import (
	"fmt"
	"html/template"
	"time"
)

// DefaultAvatar is shown for users who never uploaded one
const DefaultAvatar = "/static/ui/user.png"

// Funcs returns the template helpers. mediaURL maps a stored media key to its public URL.
func Funcs(mediaURL func(key string) string) template.FuncMap {
	return template.FuncMap{
		"formatNumber":      FormatNumber,
		"formatSubscribers": FormatSubscribers,
		"timeAgo":           func(t time.Time) string { return TimeAgo(t, time.Now()) },
		"media":             mediaURL,
		"avatar": func(key string) string {
			if key == "" {
				return DefaultAvatar
			}
			return mediaURL(key)
		},
		// text was escaped by services.FormatCommentText before it was stored
		"sanitized": func(text string) template.HTML { return template.HTML(text) },
	}
}

// FormatNumber abbreviates view and like counts: 999, 1.2K, 3.4M, 1.0B
func FormatNumber(n int) string {
	switch {
	case n >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", float64(n)/1_000_000_000)
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	}
	return fmt.Sprint(n)
}

// FormatSubscribers abbreviates subscriber counts to whole units: 999, 1K, 2M, 3B
func FormatSubscribers(n int) string {
	switch {
	case n >= 1_000_000_000:
		return fmt.Sprintf("%dB", n/1_000_000_000)
	case n >= 1_000_000:
		return fmt.Sprintf("%dM", n/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%dK", n/1_000)
	}
	return fmt.Sprint(n)
}

// TimeAgo renders the age of t relative to now, e.g. "3 days ago"
func TimeAgo(t, now time.Time) string {
	seconds := int(now.Sub(t).Seconds())
	if seconds < 0 {
		seconds = 0
	}
	switch {
	case seconds < 60:
		return plural(seconds, "second")
	case seconds < 3600:
		return plural(seconds/60, "minute")
	case seconds < 86400:
		return plural(seconds/3600, "hour")
	case seconds < 2592000:
		return plural(seconds/86400, "day")
	case seconds < 31536000:
		return plural(seconds/2592000, "month")
	}
	return plural(seconds/31536000, "year")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
