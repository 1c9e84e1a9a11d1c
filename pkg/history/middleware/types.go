package middleware

import "github.com/identropy/accord/pkg/ports"

// Middleware wraps a HistoryStore to add behavior.
type Middleware func(ports.HistoryStore) ports.HistoryStore
