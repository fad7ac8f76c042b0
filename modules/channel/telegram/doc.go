// Package telegram implements the Telegram Bot API channel for bottery.
//
// The channel ingests updates in one of two modes, fixed at configuration
// time: long polling via getUpdates, or webhook delivery through the HTTP
// gateway. Each update runs the same pipeline: translate the platform
// payload into the canonical inbound message, resolve a view handler,
// run it, and deliver the reply back through sendMessage.
package telegram
