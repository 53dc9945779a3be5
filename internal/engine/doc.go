// Package engine runs the particle field frame by frame.
//
// Each frame advances the physics, rebuilds the proximity edges and draws the
// result onto a [render.Surface]. An [Engine] runs either on its own
// goroutine paced by a [Clock] (Start) or under a host that owns the loop
// and calls Frame itself (Attach), as window toolkits that must draw on the
// main thread require.
//
// Resize and pointer events may arrive from any goroutine. They are kept in
// single-slot mailboxes where a newer event replaces an unread one, and are
// applied between frames by whoever runs them, so the particle store only
// ever has one writer.
package engine
