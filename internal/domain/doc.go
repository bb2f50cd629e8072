// Package domain contains the core business entities, value objects, and
// domain logic of the application: cards with their scheduling state, review
// outcomes, the append-only review log, and users. It is independent of any
// specific infrastructure or delivery mechanism.
package domain
