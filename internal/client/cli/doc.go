// Package cli provides the interactive admin console.
//
// It wires configuration, the local session store, the session gate, the API
// client and the per-screen controllers behind a REPL. Typical flow: settle
// the session, land on the dashboard or the login screen, start a background
// connectivity watcher and execute commands until the user exits.
//
// Key features:
//   - Register / OTP / Login / Logout and password recovery
//   - Dashboard with low stock and recent orders
//   - List, search, paginate and edit categories, products, orders, users,
//     electronics and projects
//   - Review and contact message moderation
//   - Live order and message polling
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher and runREPL for details.
package cli
