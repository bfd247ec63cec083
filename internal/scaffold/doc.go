// Package scaffold generates agent projects from embedded templates. It
// powers the "agentlaunch create" command and the scaffold stage of a
// launch, producing a runnable agent.py, a launch.yaml manifest and a
// README for each built-in template.
package scaffold
