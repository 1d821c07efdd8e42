// Package sms defines the contract for sending templated text messages.
//
// Use cases depend on the SMS interface and the Lookup payload. Kavenegar
// talks to the Kavenegar verify-lookup API; Log writes messages to the logger
// for local development.
package sms
