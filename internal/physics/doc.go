// Package physics advances a particle field by one tick.
//
// A tick is a fixed update, not scaled by elapsed wall time, so animation
// speed follows the frame rate. Per particle the [Stepper] applies, in order:
// pointer attraction, trail capture, Euler integration, spin, toroidal
// wrap-around ([Wrap]) and velocity damping.
//
// The model is decorative. There is no gravity and particles never collide.
package physics
