// Package recorder owns the capture/export lifecycle for one session slot.
//
// A [Controller] runs every capture and export job on a single worker
// goroutine, so at most one external encoder is active at a time. Callers
// start, stop and export from any goroutine without blocking; completion is
// observed through callbacks, [Controller.WaitForFinish], or finish tasks.
//
//	Idle --StartCapture--> Capturing --RequestStop--> Stopping --> Idle
//
// Each Idle transition raises the finish signal, calls the capture's
// OnFinished callback, and then drains queued finish tasks in order.
package recorder
