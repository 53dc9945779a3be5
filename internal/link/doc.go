// Package link derives short-range connections between particles.
//
// Edges are recomputed from scratch every frame and never outlive it. Two
// strategies are available:
//
//   - [WindowLinker]: compares each particle with the next few in store order,
//     O(n*k). Close pairs far apart in store order are missed.
//   - [GridLinker]: buckets particles into a uniform grid and finds every pair
//     under the threshold.
package link
