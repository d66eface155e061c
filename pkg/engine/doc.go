// Package engine is the composition root that builds analytics providers from
// configuration and exposes them to a host page renderer. Hosts create one
// Page per render, queue tracking calls on it while composing the page, and
// ask it for the script belonging at each of the four insertion points (or
// splice all four into finished HTML). Activity is observable through an
// EventBus and a slog.Logger.
package engine
