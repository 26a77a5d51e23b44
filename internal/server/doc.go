// Package server implements the HTTP server using Echo framework.
//
// Routes: comment CRUD under /chat, diary CRUD under /diary, the live
// WebSocket channel at /ws, the demo page at /chat and observability
// endpoints. Handlers split by domain: handlers_chat.go, handlers_diary.go,
// handlers_health.go, handlers_ws.go.
package server
