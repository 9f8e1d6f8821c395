// Package ui renders speaker state in the terminal for the zipp CLI.
//
// One-shot commands print through a Printer: a snapshot view, or a success
// or failure box. Failure boxes take their message and troubleshooting hint
// from the zipp error helpers. The watch command runs WatchModel, a Bubble
// Tea program that re-reads the session snapshot on a short interval and
// redraws it until the user presses q.
//
// Example:
//
//	p := ui.NewPrinter(nil)
//	if err := session.SetVolume(40); err != nil {
//	    p.PrintError("Set volume", err)
//	    return err
//	}
//	p.PrintSuccess("Volume set", map[string]string{"Volume": "40"})
//
// Logging goes to stderr and is silent unless ZIPP_LOG_LEVEL is set, so it
// never interleaves with this output.
package ui
