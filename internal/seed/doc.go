// Package seed loads the initial users and their tasks from a JSON document.
//
// The document is an array of users, each carrying its tasks:
//
//	[{"id": "...", "firstname": "Ada", "lastname": "Lovelace",
//	  "dateOfBirth": "1815-12-10",
//	  "tasks": [{"id": "...", "currentDate": "2026-10-19",
//	             "startTime": "09:00:00", "endTime": "10:00:00",
//	             "subject": "Standup", "isCurrentDate": false}]}]
//
// Seeding is idempotent: users that already exist are skipped together with
// their tasks.
package seed
