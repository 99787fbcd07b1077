// Package writers turns taxonomy assignments into serialized outputs.
//
// Each format is a streamer registered by name; StartAssignmentWriter runs
// one in a goroutine fed through a channel. JSONL goes through pkg/api (v1)
// for a stable wire format.
package writers
