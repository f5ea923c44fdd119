// Package cli provides the interactive trip planner client.
//
// It wires configuration, local state, the request gateway, the session
// manager, the conversation synchronizer and the turn orchestrator, and
// exposes them through a cobra command tree. The default command starts a
// REPL: lines that are not commands are sent to the assistant as chat turns.
//
// Assistant replies are rendered as markdown (glamour); labels are styled
// with lipgloss. Every input line counts as activity for the session's
// inactivity deadline. When the session ends (logout, 401, inactivity) the
// active conversation is torn down and the REPL returns to the login prompt.
package cli
