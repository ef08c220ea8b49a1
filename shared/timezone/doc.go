// Package timezone keeps timestamps in the application timezone and calendar dates in UTC.
//
// Timestamps (created_at, updated_at, token issue times) go through Now, ToAppTime and Format.
// Calendar dates such as booking check-in and check-out go through ParseDate, FormatDate and
// DaysBetween so a night count never shifts with daylight saving changes.
//
// The timezone is configured via the APP_TIMEZONE environment variable using IANA names
// ("UTC", "Europe/Lisbon", "America/New_York") and is initialized when the package is imported.
package timezone
