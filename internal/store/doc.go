// Package store provides the in-memory backend, the backend factory, and
// the best-effort mirror wrapper. Disk, Redis, and PostgreSQL backends live
// in their own packages (filestore, redis, database).
package store
