package domain

// Package domain contains the core business concepts for the underlog service.
// Keep this package free of transport (HTTP) and infrastructure (Postgres/Redis)
// concerns.
