// Package world holds the shared dungeon state and the Store that guards it.
//
// Every task that reads or writes the state (the session loop, each enemy
// agent and the timekeeper) goes through one Store handle. The Store owns a
// binary semaphore; State is only valid between Acquire and Release.
package world
