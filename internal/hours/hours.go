// Package hours decides whether the shop is open and drives the
// automatic resume of paused staff when it opens.
package hours

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"barberline/internal/models"
)

// IsOpen reports whether the shop is open at the given instant under
// one weekday's schedule entry. The interval is half-open: the shop is
// open at the opening minute and closed at the closing minute.
// Malformed or missing time strings mean closed.
func IsOpen(h models.BusinessHours, now time.Time) bool {
	if !h.IsOpen || h.OpenTime == "" || h.CloseTime == "" {
		return false
	}

	openMin, err := parseMinutes(h.OpenTime)
	if err != nil {
		return false
	}
	closeMin, err := parseMinutes(h.CloseTime)
	if err != nil {
		return false
	}

	current := now.Hour()*60 + now.Minute()
	return current >= openMin && current < closeMin
}

// ShopOpen evaluates the snapshot's schedule entry for the current
// weekday. A missing entry means closed.
func ShopOpen(s *models.Snapshot, now time.Time) bool {
	h, ok := s.HoursFor(int(now.Weekday()))
	if !ok {
		return false
	}
	return IsOpen(h, now)
}

// parseMinutes converts an "HH:MM" string to minutes since midnight.
func parseMinutes(timeStr string) (int, error) {
	parts := strings.Split(timeStr, ":")
	if len(parts) < 2 {
		return 0, fmt.Errorf("invalid time format: %s", timeStr)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour: %w", err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute: %w", err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("time out of range: %s", timeStr)
	}

	return hour*60 + minute, nil
}
