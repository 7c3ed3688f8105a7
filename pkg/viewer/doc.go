// Package viewer provides an embeddable session for browsing raw grayscale
// frame files.
//
// A [Session] owns one open file, a frame geometry and a cursor. Hosts open a
// file, decode the current frame, map it for display and navigate:
//
//	cfg := domain.FrameConfig{Width: 640, Height: 512, SampleBits: 16}
//	s, err := viewer.New(cfg, viewer.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	if err := s.Open("/data/capture.raw"); err != nil {
//	    return err
//	}
//	grid, index, err := s.Current()
//	img := s.Display(grid)
//
// # Reconfiguration
//
// [Session.Reconfigure] checks the new geometry against the open file and
// decodes the current frame before committing, so a rejected configuration
// leaves the session untouched.
//
// # Event Handling
//
// Implement [EventHandler] (embed [BaseEventHandler] for defaults) and pass it
// with [WithEventHandler] to follow frame, configuration and file changes.
// Handlers run synchronously and may call back into the session.
//
// # Plugins
//
// Plugins registered with [WithPlugin] are initialized by [Session.Start]
// and shut down in reverse order by [Session.Close]:
//
//	s, err := viewer.New(cfg, configwatcher.WithLayoutWatcher(configwatcher.DefaultConfig(layoutPath)))
//	if err := s.Start(ctx); err != nil {
//	    return err
//	}
package viewer
