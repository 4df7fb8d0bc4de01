// Package render displays a sort run: a bar plot of the dataset, the status
// table of every heartbeat round, and the start and completion banners.
//
// [Text] writes plain frames to any io.Writer and is the default. [Viewer]
// shows the same frames in an interactive bubbletea program. Both implement
// heartbeat.Renderer.
package render
