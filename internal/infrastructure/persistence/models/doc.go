// Package models contains the GORM persistence models for the store tables
// read by the fulfillment feed. Domain types in internal/domain/commerce stay
// free of ORM tags; each model converts itself with ToDomain.
package models
