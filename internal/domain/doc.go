// Package domain contains the core business entities, value objects, and
// domain logic of the application: user tasks, their owners, and the sort
// specification used to query them. It is independent of any specific
// infrastructure or delivery mechanism.
package domain
