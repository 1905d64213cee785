// Package server carries the chat room over WebSockets.
//
// A Client owns one gorilla/websocket connection and runs its read and write
// pumps; the read pump feeds frames to a chat.Peer, which drives the shared
// chat.Room. The Hub supervises live sockets so they can be closed on
// shutdown. Routes, the landing page, origin checks and rate limiting live
// alongside.
package server
