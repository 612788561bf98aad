// Package visual describes the shapes attached to physics items for
// rendering. The set of shape variants is closed; [Classify] maps each to the
// tag a visualizer uses to pick a renderer.
package visual
