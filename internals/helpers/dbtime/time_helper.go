// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Nama locals yang di-set middleware timezone (lihat route.SetupRoutes)
const LocAppLoc = "app_loc" // *time.Location

var monthsID = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// LoadLocation: zona dari nama, fallback Asia/Jakarta lalu WIB tetap (UTC+7).
func LoadLocation(name string) *time.Location {
	name = strings.TrimSpace(name)
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	if loc, err := time.LoadLocation("Asia/Jakarta"); err == nil {
		return loc
	}
	return time.FixedZone("WIB", 7*60*60)
}

// GetLocation mengambil *time.Location dari c.Locals("app_loc"),
// fallback ke Asia/Jakarta.
func GetLocation(c *fiber.Ctx) *time.Location {
	if c != nil {
		if v, ok := c.Locals(LocAppLoc).(*time.Location); ok && v != nil {
			return v
		}
	}
	return LoadLocation("")
}

// FormatLong: "5 Maret 2025 pukul 14.07 WIB"
func FormatLong(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = LoadLocation("")
	}
	lt := t.In(loc)
	zone, _ := lt.Zone()
	return fmt.Sprintf("%d %s %d pukul %02d.%02d %s",
		lt.Day(), monthsID[lt.Month()-1], lt.Year(), lt.Hour(), lt.Minute(), zone)
}

// FormatDate: "5 Maret 2025"
func FormatDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = LoadLocation("")
	}
	lt := t.In(loc)
	return fmt.Sprintf("%d %s %d", lt.Day(), monthsID[lt.Month()-1], lt.Year())
}
