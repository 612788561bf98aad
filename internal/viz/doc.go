// Package viz renders exported model state in the terminal.
//
//   - [VariableTable]: registry variables with their current values
//   - [PlotTrace]: recorded time series as an ASCII chart
//   - [ReadShapes] and [RenderScene]: VISUALIZER frames as braille wireframes
//
// Everything here reads through the variable registry, so it sees the model
// exactly as a co-simulation master would.
package viz
