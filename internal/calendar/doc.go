// Package calendar renders menus as iCalendar (RFC 5545) files so meals can be
// imported into calendar applications.
package calendar
