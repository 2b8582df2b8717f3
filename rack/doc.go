// Package rack models the contract between a modular-synthesis host and the
// signal-processing cores in this repository.
//
// The host owns the UI. It writes control values into [Param] from its own
// thread and connects cables to [Port] values; the audio thread reads both
// once per sample. Params use atomic storage, so the audio thread never
// blocks and always eventually observes the latest value written.
//
// [ClockDivider] gates control-rate work (parameter cooking) and [Trigger]
// turns a held button into a single rising-edge event.
package rack
