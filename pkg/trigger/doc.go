// ABOUTME: Hysteresis trigger package
// ABOUTME: Schmitt trigger with refractory period over sample streams
// Package trigger detects threshold crossings in a sample stream.
//
// A Detector fires when an armed signal reaches the high threshold and the
// refractory gap since the previous fire has elapsed. It then stays
// disarmed until the signal falls to the low threshold.
//
// Example:
//
//	det, err := trigger.NewDetector(trigger.Config{High: 3, Low: 2, MinGap: 300 * time.Millisecond}, trigger.SystemClock{})
//	for _, ev := range det.Feed(samples) {
//		log.Printf("rep %d", ev.Count)
//	}
package trigger
