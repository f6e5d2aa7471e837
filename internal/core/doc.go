// Package core provides fundamental types shared by the dungeon front-end and
// simulation packages: a character screen buffer, grid geometry helpers,
// runtime configuration and semantic input actions.
// It contains no external dependencies (especially no Bubble Tea) so game
// logic stays pure and testable.
package core
